package tracker

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the wall-clock time stamped on new records.
type Clock interface {
	Now() time.Time
}

// SessionGenerator produces the token that ties together the log lines of
// one processed event.
type SessionGenerator interface {
	Generate() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// UUIDv7Generator generates time-sortable UUIDv7 session tokens.
//
// Safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7. Panics if the random source
// fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
