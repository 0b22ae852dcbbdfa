// profilesync синхронизирует локальный кэш профилей малышей с удалённым
// хранилищем (babies-service).
//
// profile.go     - локальная модель профиля и временные идентификаторы.
// record.go      - двусторонний маппинг «строка удалённого хранилища <-> профиль».
// remote.go      - контракт удалённого сервиса (CRUD + blob).
// active.go      - NextActive: выбор активного профиля.
// cache.go       - Cache: профили + указатель на активный, best-effort персист.
// coordinator.go - Coordinator: оптимистичные insert/update/delete с откатом.
package profilesync

import "errors"

var (
	// ErrNotFound - удалённая запись отсутствует (не путать с транспортной ошибкой).
	ErrNotFound = errors.New("not found")
	// ErrInvalidName - пустое имя после TrimSpace.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidGender - значение вне {male, female, unspecified}.
	ErrInvalidGender = errors.New("invalid gender")
	// ErrInvalidBirthDate - дата рождения не в формате YYYY-MM-DD.
	ErrInvalidBirthDate = errors.New("invalid birth date")
	// ErrUnknownProfile - профиля с таким id нет в локальном кэше.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrPendingProfile - профиль ещё не подтверждён удалённой стороной (временный id).
	ErrPendingProfile = errors.New("profile is pending remote confirmation")
	// ErrRowNotDeleted - удалённая сторона не подтвердила удаление строки.
	ErrRowNotDeleted = errors.New("row not deleted")
)
