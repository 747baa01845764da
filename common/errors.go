package common

import (
	"fmt"
	"github.com/pkg/errors"
)

var (
	// configuration
	ErrNoTrackerConfigured = errors.New("no tracker server configured")
	// connect
	ErrNoTrackerAvailable     = errors.New("no tracker server available")
	ErrConnectTimeout         = errors.New("connect timeout")
	ErrConnectRefused         = errors.New("connection refused")
	ErrPoolExhausted          = errors.New("connection pool exhausted")
	ErrAllStoragesUnreachable = errors.New("all storage servers unreachable")
	ErrNoStorageAvailable     = errors.New("no storage server available")
	// protocol
	ErrInvalidData       = errors.New("invalid data")
	ErrUnexpectedEOF     = errors.New("unexpected end of stream")
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrNoFreeSpace       = errors.New("no free space on storage servers")
	ErrInvalidResponse   = errors.New("invalid response")
)

// StatusError is a nonzero status byte reported by a tracker or storage server.
type StatusError struct {
	Status byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with error status %d", e.Status)
}

// IsStatusError reports whether err was caused by a nonzero server status
// and returns that status.
func IsStatusError(err error) (byte, bool) {
	if se, ok := errors.Cause(err).(*StatusError); ok {
		return se.Status, true
	}
	return 0, false
}

// IsConnectError reports whether err happened before any byte of a request
// could be exchanged, so that another server may be tried.
func IsConnectError(err error) bool {
	switch errors.Cause(err) {
	case ErrConnectTimeout, ErrConnectRefused, ErrPoolExhausted:
		return true
	}
	return false
}
