package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-baby-cry/internal/models"
	"github.com/pribylovaa/go-baby-cry/internal/storage"
	"github.com/pribylovaa/go-baby-cry/pkg/log"
)

const dateLayout = "2006-01-02"

// Входные структуры сервисного слоя.
type CreateBabyInput struct {
	UserID    uuid.UUID
	Name      string
	BirthDate string
	Gender    models.Gender
	Notes     string
	AvatarURL string
}

// UpdateBabyInput - частичный апдейт: nil - не менять,
// указатель на "" у необязательных полей - очистить.
type UpdateBabyInput struct {
	ID        uuid.UUID
	Name      *string
	BirthDate *string
	Gender    *models.Gender
	Notes     *string
	AvatarURL *string
}

// DeleteResult - раздельный итог удаления строки и связанного объекта.
type DeleteResult struct {
	RowDeleted  bool
	BlobDeleted bool
	RowErr      error
	BlobErr     error
}

// ListBabies возвращает профили владельца, новые первыми.
func (s *Service) ListBabies(ctx context.Context, userID uuid.UUID) ([]models.Baby, error) {
	const op = "service/babies/ListBabies"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.babies.ListBabies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, hideInternal(lg, "storage error on ListBabies", err))
	}

	return result, nil
}

// BabyByID возвращает профиль по id. Отсутствие записи -> ErrNotFound.
func (s *Service) BabyByID(ctx context.Context, id uuid.UUID) (*models.Baby, error) {
	const op = "service/babies/BabyByID"

	lg := log.From(ctx).With("op", op, "baby_id", id.String())

	if id == uuid.Nil {
		lg.Warn("invalid argument: empty id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.babies.BabyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	return result, nil
}

// CreateBaby создаёт профиль.
//
// Валидация:
//   - userID обязателен;
//   - name нормализуется (TrimSpace) и не должен быть пустым;
//   - birth date - календарная дата YYYY-MM-DD или пусто;
//   - gender в диапазоне перечисления;
//   - avatar - путь в бакете, а не внешняя ссылка.
func (s *Service) CreateBaby(ctx context.Context, input CreateBabyInput) (*models.Baby, error) {
	const op = "service/babies/CreateBaby"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	baby, err := buildBaby(input)
	if err != nil {
		lg.Warn("invalid argument", "err", err)
		s.metrics.Mutation("create_baby", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.babies.CreateBaby(ctx, baby)
	s.metrics.Mutation("create_baby", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	lg.Info("baby created", "baby_id", result.ID.String())

	return result, nil
}

// UpdateBaby выполняет частичное обновление. Пустой апдейт допустим:
// updated_at всё равно сдвигается.
func (s *Service) UpdateBaby(ctx context.Context, input UpdateBabyInput) (*models.Baby, error) {
	const op = "service/babies/UpdateBaby"

	lg := log.From(ctx).With("op", op, "baby_id", input.ID.String())

	upd, err := buildUpdate(input)
	if err != nil {
		lg.Warn("invalid argument", "err", err)
		s.metrics.Mutation("update_baby", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.babies.UpdateBaby(ctx, input.ID, upd)
	s.metrics.Mutation("update_baby", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	return result, nil
}

// DeleteBaby удаляет профиль, затем (best-effort) его аватар и аудио.
// Сбой удаления объектов не отменяет удаление строки и отражается в BlobErr.
// Отсутствие профиля -> ErrNotFound.
func (s *Service) DeleteBaby(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	const op = "service/babies/DeleteBaby"

	lg := log.From(ctx).With("op", op, "baby_id", id.String())

	if id == uuid.Nil {
		return DeleteResult{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	baby, err := s.babies.BabyByID(ctx, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%s: %w", op, s.mapStorageErr(lg, err))
	}

	// Ключи аудио нужно прочитать до удаления строки: записи удаляются каскадно.
	recs, err := s.babies.ListRecordings(ctx, baby.UserID, &id)
	if err != nil {
		lg.Warn("list recordings before delete failed", "err", err)
	}

	var res DeleteResult

	if err := s.babies.DeleteBaby(ctx, id); err != nil {
		s.metrics.Mutation("delete_baby", err)
		mapped := s.mapStorageErr(lg, err)
		res.RowErr = mapped

		return res, fmt.Errorf("%s: %w", op, mapped)
	}
	res.RowDeleted = true
	s.metrics.Mutation("delete_baby", nil)

	if baby.AvatarURL != nil && isStorageKey(*baby.AvatarURL) {
		res.BlobErr = s.removeObject(ctx, *baby.AvatarURL)
		res.BlobDeleted = res.BlobErr == nil
	}

	for _, r := range recs {
		_ = s.removeObject(ctx, r.ObjectKey)
	}

	if res.BlobErr != nil {
		lg.Warn("baby deleted, avatar cleanup failed", "err", res.BlobErr)
	}

	return res, nil
}

func (s *Service) removeObject(ctx context.Context, key string) error {
	err := s.objects.RemoveObject(ctx, key)
	s.metrics.BlobDelete(err)
	if err != nil {
		log.From(ctx).Warn("object remove failed", "key", key, "err", err)
	}

	return err
}

// mapStorageErr - маппинг ошибок storage -> service.
func (s *Service) mapStorageErr(lg *slog.Logger, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("not found")
		return ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		lg.Warn("already exists")
		return ErrAlreadyExists
	case errors.Is(err, storage.ErrForeignKey):
		lg.Warn("foreign key violation")
		return ErrFailedPrecondition
	default:
		return hideInternal(lg, "storage error", err)
	}
}

// hideInternal скрывает причину за ErrInternal. Отмена и дедлайн контекста
// возвращаются как есть: это не сбой сервиса.
func hideInternal(lg *slog.Logger, msg string, err error) error {
	for _, ctxErr := range []error{context.Canceled, context.DeadlineExceeded} {
		if errors.Is(err, ctxErr) {
			lg.Warn(msg, "err", err)
			return ctxErr
		}
	}

	lg.Error(msg, "err", err)
	return ErrInternal
}

func buildBaby(in CreateBabyInput) (*models.Baby, error) {
	if in.UserID == uuid.Nil {
		return nil, errors.New("empty user_id")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("empty name")
	}

	if !in.Gender.Valid() {
		return nil, fmt.Errorf("gender %d out of range", in.Gender)
	}

	bd, err := parseDate(in.BirthDate)
	if err != nil {
		return nil, err
	}

	avatar := strings.TrimSpace(in.AvatarURL)
	if avatar != "" && !isStorageKey(avatar) {
		return nil, fmt.Errorf("avatar %q is not a storage path", avatar)
	}

	return &models.Baby{
		UserID:    in.UserID,
		Name:      name,
		BirthDate: bd,
		Gender:    in.Gender,
		Notes:     optional(in.Notes),
		AvatarURL: optional(avatar),
	}, nil
}

func buildUpdate(in UpdateBabyInput) (storage.BabyUpdate, error) {
	var upd storage.BabyUpdate

	if in.ID == uuid.Nil {
		return upd, errors.New("empty id")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return upd, errors.New("empty name")
		}
		upd.Name = &name
	}

	if in.BirthDate != nil {
		bd, err := parseDate(*in.BirthDate)
		if err != nil {
			return upd, err
		}

		var v time.Time
		if bd != nil {
			v = *bd
		}
		upd.BirthDate = &v
	}

	if in.Gender != nil {
		if !in.Gender.Valid() {
			return upd, fmt.Errorf("gender %d out of range", *in.Gender)
		}
		upd.Gender = in.Gender
	}

	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		upd.Notes = &notes
	}

	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		if avatar != "" && !isStorageKey(avatar) {
			return upd, fmt.Errorf("avatar %q is not a storage path", avatar)
		}
		upd.AvatarURL = &avatar
	}

	return upd, nil
}

// parseDate разбирает YYYY-MM-DD; пустая строка -> nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("birth date %q: %w", s, err)
	}

	return &t, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

// isStorageKey отличает путь в бакете от внешних и локальных ссылок.
func isStorageKey(ref string) bool {
	lower := strings.ToLower(ref)
	for _, prefix := range []string{"http://", "https://", "file://", "/", "./", "../"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	return ref != "" && !strings.Contains(ref, "..")
}
