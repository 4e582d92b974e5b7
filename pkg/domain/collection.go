package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is a single opaque record inside a tenant collection.
type Document struct {
	ID        uuid.UUID
	Data      json.RawMessage
	CreatedAt time.Time
}
