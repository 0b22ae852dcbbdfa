package postgres

// Интеграционные тесты пакета postgres:
// - поднимают PostgreSQL через testcontainers-go (postgres:16-alpine);
// - применяют миграции из ./migrations;
// - проверяют CRUD профилей, очистку необязательных полей, порядок выдачи,
//   каскадное удаление записей и классификацию FK/unique нарушений.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var migrations = []string{"1_init_babies.up.sql", "2_recordings.up.sql"}

// migrationsDir - ./migrations относительно корня модуля.
func migrationsDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "migrations"))
}

func startPostgres(t *testing.T) *BabiesStorage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		pool, err = pgxpool.New(ctx, dsn)
		return err == nil && pool.Ping(ctx) == nil
	}, 30*time.Second, 500*time.Millisecond)
	defer pool.Close()

	for _, name := range migrations {
		sql, err := os.ReadFile(filepath.Join(migrationsDir(), name))
		require.NoError(t, err)
		_, err = pool.Exec(ctx, string(sql))
		require.NoError(t, err, name)
	}

	st, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func strPtr(s string) *string { return &s }

func TestIntegration_Babies_CRUD(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	owner := uuid.New()

	bd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := st.CreateBaby(ctx, &models.Baby{
		UserID:    owner,
		Name:      "Alice",
		BirthDate: &bd,
		Gender:    models.GenderFemale,
		Notes:     strPtr("colic"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "Alice", created.Name)
	require.NotNil(t, created.BirthDate)
	require.True(t, bd.Equal(*created.BirthDate))
	require.Nil(t, created.AvatarURL)

	got, err := st.BabyByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	// Очистка необязательных полей и смена имени.
	name, zero := "Anna", time.Time{}
	updated, err := st.UpdateBaby(ctx, created.ID, storage.BabyUpdate{
		Name:      &name,
		BirthDate: &zero,
		Notes:     strPtr(""),
		AvatarURL: strPtr("avatars/x/1.jpg"),
	})
	require.NoError(t, err)
	require.Equal(t, "Anna", updated.Name)
	require.Nil(t, updated.BirthDate)
	require.Nil(t, updated.Notes)
	require.Equal(t, "avatars/x/1.jpg", *updated.AvatarURL)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	require.NoError(t, st.DeleteBaby(ctx, created.ID))
	require.ErrorIs(t, st.DeleteBaby(ctx, created.ID), storage.ErrNotFound)

	_, err = st.BabyByID(ctx, created.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_Babies_ListOrderAndOwner(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	first, err := st.CreateBaby(ctx, &models.Baby{UserID: owner, Name: "first"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := st.CreateBaby(ctx, &models.Baby{UserID: owner, Name: "second"})
	require.NoError(t, err)
	_, err = st.CreateBaby(ctx, &models.Baby{UserID: other, Name: "foreign"})
	require.NoError(t, err)

	list, err := st.ListBabies(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	empty, err := st.ListBabies(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestIntegration_Babies_DuplicateAndMissing(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	b := &models.Baby{ID: uuid.New(), UserID: uuid.New(), Name: "dup"}
	_, err := st.CreateBaby(ctx, b)
	require.NoError(t, err)

	_, err = st.CreateBaby(ctx, b)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	name := "x"
	_, err = st.UpdateBaby(ctx, uuid.New(), storage.BabyUpdate{Name: &name})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_Recordings(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	owner := uuid.New()

	a, err := st.CreateBaby(ctx, &models.Baby{UserID: owner, Name: "A"})
	require.NoError(t, err)
	b, err := st.CreateBaby(ctx, &models.Baby{UserID: owner, Name: "B"})
	require.NoError(t, err)

	mk := func(baby uuid.UUID, key string) *models.Recording {
		rec, err := st.CreateRecording(ctx, &models.Recording{
			UserID:      owner,
			BabyID:      baby,
			ObjectKey:   key,
			ContentType: "audio/wav",
			SizeBytes:   2048,
			Meta:        map[string]any{"duration_ms": float64(4200)},
		})
		require.NoError(t, err)
		return rec
	}

	ra := mk(a.ID, owner.String()+"/1.wav")
	time.Sleep(10 * time.Millisecond)
	rb := mk(b.ID, owner.String()+"/2.wav")

	all, err := st.ListRecordings(ctx, owner, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, rb.ID, all[0].ID)
	require.Equal(t, float64(4200), all[1].Meta["duration_ms"])

	onlyA, err := st.ListRecordings(ctx, owner, &a.ID)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	require.Equal(t, ra.ID, onlyA[0].ID)

	_, err = st.CreateRecording(ctx, &models.Recording{
		UserID: owner, BabyID: uuid.New(), ObjectKey: "k", ContentType: "audio/wav", SizeBytes: 1,
	})
	require.ErrorIs(t, err, storage.ErrForeignKey)

	// Каскад: удаление малыша удаляет его записи.
	require.NoError(t, st.DeleteBaby(ctx, a.ID))
	_, err = st.RecordingByID(ctx, ra.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.DeleteRecording(ctx, rb.ID))
	require.ErrorIs(t, st.DeleteRecording(ctx, rb.ID), storage.ErrNotFound)
}

func TestIntegration_ContextDeadline(t *testing.T) {
	st := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.ListBabies(ctx, uuid.New())
	require.Error(t, err)
}
