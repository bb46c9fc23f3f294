package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a user-defined label attached to vault items. Names are unique per
// user; the optional color is a hex code like "#FF5733".
type Tag struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Color     string
	CreatedAt time.Time
}
