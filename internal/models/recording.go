package models

import (
	"time"

	"github.com/google/uuid"
)

// Recording - загруженная запись плача, привязанная к малышу.
type Recording struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	BabyID      uuid.UUID
	ObjectKey   string
	URL         string
	ContentType string
	SizeBytes   int64
	Notes       *string
	Meta        map[string]any
	CreatedAt   time.Time
}
