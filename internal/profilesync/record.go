package profilesync

import (
	"strings"
	"time"
)

// Record - строка профиля в форме удалённого хранилища (snake_case, null-able поля).
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	BirthDate *string   `json:"birth_date"`
	Gender    *string   `json:"gender"`
	Notes     *string   `json:"notes"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRecord переводит строку в локальный профиль: null -> "",
// неизвестный/отсутствующий пол -> GenderUnspecified. Превью не заполняется.
func FromRecord(r Record) Profile {
	p := Profile{
		ID:        r.ID,
		Name:      r.Name,
		BirthDate: deref(r.BirthDate),
		Gender:    GenderUnspecified,
		Notes:     deref(r.Notes),
		AvatarURL: deref(r.AvatarURL),
	}

	if r.Gender != nil {
		if g, err := ParseGender(*r.Gender); err == nil {
			p.Gender = g
		}
	}

	return p
}

// ToRecord переводит профиль в строку удалённого хранилища: "" -> null.
// ID и временные метки заполняет удалённая сторона; временный id не переносится.
func ToRecord(p Profile, ownerID string) Record {
	r := Record{
		UserID:    ownerID,
		Name:      p.Name,
		BirthDate: ref(p.BirthDate),
		Notes:     ref(p.Notes),
		AvatarURL: ref(p.AvatarURL),
	}

	if !IsTempID(p.ID) {
		r.ID = p.ID
	}

	g := p.Gender
	if g == "" {
		g = GenderUnspecified
	}
	gs := string(g)
	r.Gender = &gs

	return r
}

// IsStoragePath сообщает, что ссылка на аватар - долговечный путь в хранилище,
// который нужно обменять на подписанный URL (а не http(s)-ссылка или локальный файл).
func IsStoragePath(ref string) bool {
	if ref == "" {
		return false
	}

	lower := strings.ToLower(ref)
	for _, prefix := range []string{"http://", "https://", "file://", "/", "./", "../"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
