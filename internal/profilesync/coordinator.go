package profilesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EagleChen/mapmutex"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSignTTL     = time.Hour
	defaultSignWorkers = 4
)

// Coordinator выполняет create/update/delete против Remote, сохраняя
// отзывчивость и согласованность локального кэша.
//
// Жизненный цикл мутации:
//
//	initiated -> applied-locally -> reconciled | rolled-back
//
// Мутации одного профиля сериализуются (не более одной в полёте на id);
// мутации разных профилей идут параллельно. Автоматических повторов нет.
type Coordinator struct {
	cache    *Cache
	remote   Remote
	ownerID  string
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time

	signTTL     time.Duration
	signWorkers int

	locks *mapmutex.Mutex

	tempMu   sync.Mutex
	lastTemp int64

	invalidated chan struct{}
}

// Option настраивает Coordinator.
type Option func(*Coordinator)

// WithNotifier задаёт получателя пользовательских уведомлений.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithLogger задаёт логгер.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithClock подменяет источник времени (временные id).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithSignTTL задаёт срок жизни подписанных ссылок на аватары.
func WithSignTTL(ttl time.Duration) Option {
	return func(c *Coordinator) { c.signTTL = ttl }
}

// WithSignWorkers ограничивает число параллельных подписей при Refresh.
func WithSignWorkers(n int) Option {
	return func(c *Coordinator) { c.signWorkers = n }
}

// NewCoordinator создаёт координатор для владельца ownerID.
func NewCoordinator(cache *Cache, remote Remote, ownerID string, opts ...Option) *Coordinator {
	c := &Coordinator{
		cache:       cache,
		remote:      remote,
		ownerID:     ownerID,
		now:         time.Now,
		signTTL:     defaultSignTTL,
		signWorkers: defaultSignWorkers,
		locks:       newLocks(),
		invalidated: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = slog.Default()
	}

	if c.notifier == nil {
		c.notifier = LogNotifier{Log: c.log}
	}

	if c.signWorkers <= 0 {
		c.signWorkers = 1
	}

	return c
}

// Cache возвращает кэш, которым управляет координатор.
func (c *Coordinator) Cache() *Cache {
	return c.cache
}

// Invalidated сигнализирует вторичным потребителям, что удалённое состояние
// изменилось и его стоит перечитать. Сигналы схлопываются.
func (c *Coordinator) Invalidated() <-chan struct{} {
	return c.invalidated
}

// Refresh перечитывает профили владельца, подписывает аватары и заменяет
// коллекцию с сохранением активного выбора. Профили, ожидающие подтверждения
// вставки (временные id), сохраняются в конце коллекции.
func (c *Coordinator) Refresh(ctx context.Context) error {
	const op = "profilesync/Refresh"

	records, err := c.remote.List(ctx, c.ownerID)
	if err != nil {
		c.log.Warn("refresh_failed", slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	profiles := make([]Profile, len(records))
	for i, r := range records {
		profiles[i] = FromRecord(r)
	}

	if err := c.signAvatars(ctx, profiles); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range c.cache.Profiles() {
		if IsTempID(p.ID) {
			profiles = append(profiles, p)
		}
	}

	active := c.cache.SetProfiles(profiles, "")
	c.log.Debug("refreshed", slog.Int("profiles", len(profiles)), slog.String("active_id", active))

	return nil
}

// signAvatars параллельно подписывает долговечные пути аватаров.
// Ошибка подписи не фатальна: в превью остаётся исходная ссылка.
func (c *Coordinator) signAvatars(ctx context.Context, profiles []Profile) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.signWorkers)

	for i := range profiles {
		p := &profiles[i]
		if !IsStoragePath(p.AvatarURL) {
			p.AvatarPreviewURL = p.AvatarURL
			continue
		}

		path := p.AvatarURL
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if url := c.remote.SignBlobURL(gctx, path, c.signTTL); url != "" {
				p.AvatarPreviewURL = url
			} else {
				p.AvatarPreviewURL = path
			}

			return nil
		})
	}

	return g.Wait()
}

// Select делает профиль активным.
func (c *Coordinator) Select(id string) error {
	if !c.cache.SetActive(id) {
		return fmt.Errorf("profilesync/Select: %q: %w", id, ErrUnknownProfile)
	}

	return nil
}

// Insert создаёт профиль оптимистично: сразу добавляет его в кэш под
// временным id, затем подтверждает удалённо. При успехе временный id
// заменяется серверным, при ошибке кэш откатывается.
func (c *Coordinator) Insert(ctx context.Context, draft Draft) (Profile, error) {
	const op = "profilesync/Insert"

	draft, err := draft.normalize()
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	optimistic := Profile{
		Name:      draft.Name,
		BirthDate: draft.BirthDate,
		Gender:    draft.Gender,
		Notes:     draft.Notes,
	}

	if draft.AvatarFile != "" {
		up, err := c.remote.UploadBlob(ctx, draft.AvatarFile, c.ownerID)
		if err != nil {
			c.notifier.Notify(LevelError, "Avatar upload failed")
			return Profile{}, fmt.Errorf("%s: upload avatar: %w", op, err)
		}

		optimistic.AvatarURL = up.StoragePath
		optimistic.AvatarPreviewURL = up.PreviewURL
	}

	optimistic.ID = c.nextTempID()

	if err := c.lock(ctx, optimistic.ID); err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	defer c.locks.Unlock(optimistic.ID)

	snap, applied := c.cache.mutate(func(ps []Profile, _ string) ([]Profile, string) {
		return append(ps, optimistic), ""
	})

	lg := c.log.With(slog.String("op", op), slog.String("temp_id", optimistic.ID))

	rec, err := c.remote.Insert(ctx, c.ownerID, ToRecord(optimistic, c.ownerID))
	if err != nil {
		exact := c.cache.rollback(snap, applied, func(ps []Profile, _ string) ([]Profile, string) {
			return removeID(ps, optimistic.ID), ""
		})
		lg.Warn("insert_failed_rolled_back", slog.Bool("exact", exact), slog.String("err", err.Error()))
		c.notifier.Notify(LevelError, "Failed to add baby")

		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	confirmed := FromRecord(rec)
	if confirmed.AvatarURL == optimistic.AvatarURL {
		confirmed.AvatarPreviewURL = optimistic.AvatarPreviewURL
	}

	c.cache.mutate(func(ps []Profile, active string) ([]Profile, string) {
		return replaceTemp(ps, optimistic.ID, confirmed), activeAfterReplace(active, optimistic.ID, confirmed.ID)
	})

	lg.Info("insert_reconciled", slog.String("id", confirmed.ID))
	c.invalidate()
	c.notifier.Notify(LevelSuccess, "Baby added")

	return confirmed, nil
}

// Update применяет патч оптимистично и подтверждает удалённо.
// При успехе принимаются канонические поля удалённой стороны.
func (c *Coordinator) Update(ctx context.Context, id string, patch Patch) (Profile, error) {
	const op = "profilesync/Update"

	if IsTempID(id) {
		return Profile{}, fmt.Errorf("%s: %q: %w", op, id, ErrPendingProfile)
	}

	patch, err := patch.normalize()
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	current, ok := c.cache.Get(id)
	if !ok {
		return Profile{}, fmt.Errorf("%s: %q: %w", op, id, ErrUnknownProfile)
	}

	if patch.Empty() {
		return current, nil
	}

	var preview string
	if patch.AvatarFile != "" {
		up, err := c.remote.UploadBlob(ctx, patch.AvatarFile, c.ownerID)
		if err != nil {
			c.notifier.Notify(LevelError, "Avatar upload failed")
			return Profile{}, fmt.Errorf("%s: upload avatar: %w", op, err)
		}

		patch.AvatarURL = &up.StoragePath
		patch.AvatarFile = ""
		preview = up.PreviewURL
	}

	if err := c.lock(ctx, id); err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	defer c.locks.Unlock(id)

	before, ok := c.cache.Get(id)
	if !ok {
		return Profile{}, fmt.Errorf("%s: %q: %w", op, id, ErrUnknownProfile)
	}

	optimistic := patch.Apply(before)
	if preview != "" {
		optimistic.AvatarPreviewURL = preview
	}

	snap, applied := c.cache.mutate(func(ps []Profile, _ string) ([]Profile, string) {
		return replaceByID(ps, optimistic), ""
	})

	lg := c.log.With(slog.String("op", op), slog.String("id", id))

	rec, err := c.remote.Update(ctx, id, patch)
	if err != nil {
		exact := c.cache.rollback(snap, applied, func(ps []Profile, _ string) ([]Profile, string) {
			return replaceByID(ps, before), ""
		})
		lg.Warn("update_failed_rolled_back", slog.Bool("exact", exact), slog.String("err", err.Error()))
		c.notifier.Notify(LevelError, "Failed to update baby")

		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	canonical := FromRecord(rec)
	if canonical.AvatarURL == optimistic.AvatarURL {
		canonical.AvatarPreviewURL = optimistic.AvatarPreviewURL
	}

	c.cache.mutate(func(ps []Profile, _ string) ([]Profile, string) {
		return replaceByID(ps, canonical), ""
	})

	lg.Info("update_reconciled")
	c.invalidate()
	c.notifier.Notify(LevelSuccess, "Saved")

	return canonical, nil
}

// Delete удаляет профиль оптимистично. Если удаляется активный профиль,
// активным становится первый оставшийся. Строка и аватар отчитываются
// раздельно: сбой удаления аватара не отменяет удаление строки.
func (c *Coordinator) Delete(ctx context.Context, id string) (DeleteResult, error) {
	const op = "profilesync/Delete"

	if IsTempID(id) {
		return DeleteResult{}, fmt.Errorf("%s: %q: %w", op, id, ErrPendingProfile)
	}

	if err := c.lock(ctx, id); err != nil {
		return DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer c.locks.Unlock(id)

	if _, ok := c.cache.Get(id); !ok {
		return DeleteResult{}, fmt.Errorf("%s: %q: %w", op, id, ErrUnknownProfile)
	}

	snap, applied := c.cache.mutate(func(ps []Profile, _ string) ([]Profile, string) {
		return removeID(ps, id), ""
	})

	// Refresh мог убрать профиль между проверкой и записью.
	idx := indexOf(snap.Profiles, id)
	if idx < 0 {
		return DeleteResult{}, fmt.Errorf("%s: %q: %w", op, id, ErrUnknownProfile)
	}
	removed := snap.Profiles[idx]
	wasActive := snap.ActiveID == id

	lg := c.log.With(slog.String("op", op), slog.String("id", id))

	res := c.remote.Delete(ctx, id)

	switch {
	case res.RowDeleted:
	case errors.Is(res.RowErr, ErrNotFound):
		// Строки уже нет удалённо: локальное удаление согласовано.
		lg.Info("delete_row_already_absent")
		c.invalidate()
		c.notifier.Notify(LevelInfo, "Baby already removed")

		return res, nil
	default:
		exact := c.cache.rollback(snap, applied, func(ps []Profile, active string) ([]Profile, string) {
			hint := ""
			if wasActive {
				hint = id
			}

			return insertAt(ps, idx, removed), hint
		})

		rowErr := res.RowErr
		if rowErr == nil {
			rowErr = ErrRowNotDeleted
		}

		lg.Warn("delete_failed_rolled_back", slog.Bool("exact", exact), slog.String("err", rowErr.Error()))
		c.notifier.Notify(LevelError, "Failed to delete baby")

		return res, fmt.Errorf("%s: %w", op, rowErr)
	}

	c.invalidate()

	if !res.BlobDeleted && res.BlobErr != nil {
		lg.Warn("delete_blob_failed", slog.String("err", res.BlobErr.Error()))
		c.notifier.Notify(LevelInfo, "Baby deleted, avatar cleanup failed")

		return res, nil
	}

	lg.Info("deleted", slog.Bool("blob_deleted", res.BlobDeleted))
	c.notifier.Notify(LevelSuccess, "Baby deleted")

	return res, nil
}

// lock захватывает блокировку профиля id, ожидая её освобождения.
func (c *Coordinator) lock(ctx context.Context, id string) error {
	for !c.locks.TryLock(id) {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

// Параметры ожидания блокировки профиля: один TryLock спит с экспоненциальной
// задержкой от lockBaseDelay до lockMaxDelay (в сумме около 40ms), затем lock
// проверяет ctx и пробует снова.
const (
	lockRetries   = 8
	lockBaseDelay = time.Millisecond
	lockMaxDelay  = 10 * time.Millisecond
	lockFactor    = 1.5
	lockJitter    = 0.2
)

func newLocks() *mapmutex.Mutex {
	return mapmutex.NewCustomizedMapMutex(
		lockRetries,
		float64(lockMaxDelay),
		float64(lockBaseDelay),
		lockFactor,
		lockJitter)
}

// nextTempID выдаёт строго возрастающий временный id вида temp-<unix ms>.
func (c *Coordinator) nextTempID() string {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.lastTemp {
		ms = c.lastTemp + 1
	}
	c.lastTemp = ms

	return tempID(ms)
}

func (c *Coordinator) invalidate() {
	select {
	case c.invalidated <- struct{}{}:
	default:
	}
}

func removeID(ps []Profile, id string) []Profile {
	out := ps[:0]
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}

	return out
}

// replaceByID заменяет профиль с тем же id; отсутствующий id игнорируется.
func replaceByID(ps []Profile, p Profile) []Profile {
	if i := indexOf(ps, p.ID); i >= 0 {
		ps[i] = p
	}

	return ps
}

// replaceTemp заменяет временный профиль подтверждённым. Если подтверждённый id
// уже в коллекции (его принёс Refresh), временный просто удаляется.
func replaceTemp(ps []Profile, tempID string, confirmed Profile) []Profile {
	i := indexOf(ps, tempID)
	if i < 0 {
		return ps
	}

	if containsID(ps, confirmed.ID) {
		return removeID(ps, tempID)
	}

	ps[i] = confirmed

	return ps
}

func activeAfterReplace(active, tempID, confirmedID string) string {
	if active == tempID {
		return confirmedID
	}

	return ""
}

// insertAt возвращает удалённый профиль на прежнюю позицию, если его там нет.
func insertAt(ps []Profile, idx int, p Profile) []Profile {
	if containsID(ps, p.ID) {
		return ps
	}

	if idx > len(ps) {
		idx = len(ps)
	}

	ps = append(ps, Profile{})
	copy(ps[idx+1:], ps[idx:])
	ps[idx] = p

	return ps
}
