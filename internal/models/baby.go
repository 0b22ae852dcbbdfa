// models содержит доменные сущности babies-service.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender - пол малыша; в БД хранится как SMALLINT.
type Gender int8

const (
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unspecified"
	}
}

// Valid сообщает, входит ли значение в перечисление.
func (g Gender) Valid() bool {
	return g >= GenderUnspecified && g <= GenderFemale
}

// ParseGender - обратная String операция; "" -> GenderUnspecified.
func ParseGender(s string) (Gender, bool) {
	switch s {
	case "", "unspecified":
		return GenderUnspecified, true
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	default:
		return 0, false
	}
}

// Baby - профиль малыша.
// Необязательные поля - указатели: nil соответствует NULL в БД.
// AvatarURL хранит путь объекта в бакете, а не подписанную ссылку.
type Baby struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	BirthDate *time.Time
	Gender    Gender
	Notes     *string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
