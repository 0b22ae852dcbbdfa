package profilesync

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Gender - пол малыша в том виде, в каком он хранится удалённо.
type Gender string

const (
	GenderUnspecified Gender = "unspecified"
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

// ParseGender нормализует строку в Gender. Пустая строка -> GenderUnspecified.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case "", GenderUnspecified:
		return GenderUnspecified, nil
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidGender)
	}
}

// Valid сообщает, входит ли значение в перечисление.
func (g Gender) Valid() bool {
	switch g {
	case GenderUnspecified, GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// DateLayout - формат календарной даты ISO 8601.
const DateLayout = "2006-01-02"

// Profile - локальное представление профиля.
//
// Необязательные поля хранятся пустыми строками (null удалённой стороны -> "").
// AvatarURL - либо долговечный путь в объектном хранилище, либо (временно)
// локальный путь к файлу, ожидающему загрузки. AvatarPreviewURL - подписанная
// ссылка с ограниченным сроком жизни, пригодная для показа.
type Profile struct {
	ID               string
	Name             string
	BirthDate        string
	Gender           Gender
	Notes            string
	AvatarURL        string
	AvatarPreviewURL string
}

const tempPrefix = "temp-"

// IsTempID сообщает, является ли id временным (выданным локально до подтверждения).
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

func tempID(ms int64) string {
	return tempPrefix + strconv.FormatInt(ms, 10)
}

// Draft - поля нового профиля.
// AvatarFile - локальный файл аватара; загружается до создания записи.
type Draft struct {
	Name       string
	BirthDate  string
	Gender     Gender
	Notes      string
	AvatarFile string
}

// Patch - частичное обновление профиля.
// nil - поле не меняется; указатель на "" для необязательных полей - очистка.
type Patch struct {
	Name       *string `json:"name,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty"`
	Gender     *Gender `json:"gender,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	AvatarFile string  `json:"-"`
}

// Empty сообщает, что патч ничего не меняет.
func (p Patch) Empty() bool {
	return p.Name == nil && p.BirthDate == nil && p.Gender == nil &&
		p.Notes == nil && p.AvatarURL == nil && p.AvatarFile == ""
}

// Apply возвращает копию профиля с применённым патчем.
// При смене AvatarURL превью сбрасывается: старая подпись к новому пути не относится.
func (p Patch) Apply(profile Profile) Profile {
	if p.Name != nil {
		profile.Name = *p.Name
	}

	if p.BirthDate != nil {
		profile.BirthDate = *p.BirthDate
	}

	if p.Gender != nil {
		profile.Gender = *p.Gender
	}

	if p.Notes != nil {
		profile.Notes = *p.Notes
	}

	if p.AvatarURL != nil && *p.AvatarURL != profile.AvatarURL {
		profile.AvatarURL = *p.AvatarURL
		profile.AvatarPreviewURL = ""
	}

	return profile
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	return name, nil
}

func validateBirthDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidBirthDate)
	}

	return s, nil
}

// normalize валидирует черновик и возвращает нормализованную копию.
func (d Draft) normalize() (Draft, error) {
	name, err := validateName(d.Name)
	if err != nil {
		return Draft{}, err
	}
	d.Name = name

	if d.BirthDate, err = validateBirthDate(d.BirthDate); err != nil {
		return Draft{}, err
	}

	if d.Gender == "" {
		d.Gender = GenderUnspecified
	}

	if !d.Gender.Valid() {
		return Draft{}, fmt.Errorf("%q: %w", d.Gender, ErrInvalidGender)
	}

	d.Notes = strings.TrimSpace(d.Notes)
	d.AvatarFile = strings.TrimSpace(d.AvatarFile)

	return d, nil
}

// normalize валидирует патч и возвращает нормализованную копию.
func (p Patch) normalize() (Patch, error) {
	if p.Name != nil {
		name, err := validateName(*p.Name)
		if err != nil {
			return Patch{}, err
		}
		p.Name = &name
	}

	if p.BirthDate != nil {
		bd, err := validateBirthDate(*p.BirthDate)
		if err != nil {
			return Patch{}, err
		}
		p.BirthDate = &bd
	}

	if p.Gender != nil && !p.Gender.Valid() {
		return Patch{}, fmt.Errorf("%q: %w", *p.Gender, ErrInvalidGender)
	}

	if p.Notes != nil {
		notes := strings.TrimSpace(*p.Notes)
		p.Notes = &notes
	}

	p.AvatarFile = strings.TrimSpace(p.AvatarFile)

	return p, nil
}
