package output

import (
	"time"

	"eventcore/internal/domain/entities"
)

// Notifier accepts fan-out messages without blocking and never fails the caller.
type Notifier interface {
	Publish(msg entities.Notification)
}

// Clock is the source of wall-clock time for status derivation and ledger stamps.
type Clock interface {
	Now() time.Time
}
