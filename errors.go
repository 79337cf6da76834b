package baudscan

import "errors"

// Predefined error types for robust error handling
var (
	// ErrPortUnavailable wraps every failure to open the device. It aborts
	// a detection run: a different baud rate cannot make the device reachable.
	ErrPortUnavailable  = errors.New("serial port unavailable")
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")

	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrInvalidConfig   = errors.New("invalid detection configuration")
	ErrPortClosed      = errors.New("serial port is closed")
	ErrReadTimeout     = errors.New("read operation timed out")

	// Candidate source errors
	ErrNoCandidates   = errors.New("candidate list is empty")
	ErrUnknownRateSet = errors.New("unknown rate set")
)
