package errs

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Callers test with errors.Is; the concrete errors carry a
// human-readable reason via Wrap*.
var (
	ErrInvalidTrip       = errors.New("invalid trip")
	ErrProcessingTimeout = errors.New("processing timeout")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidQuery      = errors.New("invalid query")
)

// InvalidTrip returns an ErrInvalidTrip with a reason.
func InvalidTrip(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTrip, fmt.Sprintf(format, args...))
}

// InvalidQuery returns an ErrInvalidQuery with a reason.
func InvalidQuery(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// StoreUnavailable wraps a store I/O failure.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// ProcessingTimeout reports an aborted trip.
func ProcessingTimeout(tripID string) error {
	return fmt.Errorf("%w: trip %s", ErrProcessingTimeout, tripID)
}
