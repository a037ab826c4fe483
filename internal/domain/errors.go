package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventEnded         = errors.New("event has already ended")
	ErrCapacityExceeded   = errors.New("event is full")
	ErrInvalidSpec        = errors.New("invalid event spec")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient role for this action")
)

// Error codes exposed to adapters. They double as i18n message ids under "errors.".
const (
	CodeEventNotFound      = "event_not_found"
	CodeEventEnded         = "event_ended"
	CodeCapacityExceeded   = "capacity_exceeded"
	CodeInvalidSpec        = "invalid_spec"
	CodeStorageUnavailable = "storage_unavailable"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeInternal           = "internal"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrEventNotFound, CodeEventNotFound},
	{ErrEventEnded, CodeEventEnded},
	{ErrCapacityExceeded, CodeCapacityExceeded},
	{ErrInvalidSpec, CodeInvalidSpec},
	{ErrStorageUnavailable, CodeStorageUnavailable},
	{ErrUnauthenticated, CodeUnauthenticated},
	{ErrForbidden, CodeForbidden},
}

// Code returns the stable code of the first domain error found in err's chain.
// It returns "" for nil and CodeInternal for errors outside the taxonomy.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
