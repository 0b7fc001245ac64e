package tuner

import "errors"

var (
	// ErrInvalidParams is returned when requested parameters cannot be realized.
	ErrInvalidParams = errors.New("tuner: invalid parameters")

	// ErrFilterTooLong is returned when a filter length exceeds the configured maximum.
	ErrFilterTooLong = errors.New("tuner: filter length exceeds maximum")

	// ErrClosed is returned by operations on a closed tuner.
	ErrClosed = errors.New("tuner: closed")

	// ErrAcquire marks a batch aborted because reconfiguration failed.
	ErrAcquire = errors.New("tuner: acquisition failed")

	// ErrShortRead is returned when the source delivered fewer samples than
	// requested without reporting an error of its own.
	ErrShortRead = errors.New("tuner: short read")

	// ErrUnknownProperty is returned for property names Control does not know.
	ErrUnknownProperty = errors.New("tuner: unknown property")
)
