package baudscan

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Port is a serial device held open at one baud rate with fixed 8N1 framing.
type Port interface {
	// ReadByteTimeout blocks for at most timeout waiting for one byte.
	// It returns ErrReadTimeout when nothing arrives in time; a timeout
	// of zero or less polls without blocking.
	ReadByteTimeout(timeout time.Duration) (byte, error)
	// FlushInput discards any unread input data
	FlushInput() error
	// Close releases the device. Calling it again is a no-op.
	Close() error

	Device() string
	Rate() BaudRate
}

// portConfig holds the per-open line settings
type portConfig struct {
	InitialDTR *bool
	InitialRTS *bool
}

// PortOption is a functional option for Open
type PortOption func(*portConfig)

// WithInitialDTR sets the DTR line on open
func WithInitialDTR(state bool) PortOption {
	return func(c *portConfig) {
		c.InitialDTR = &state
	}
}

// WithInitialRTS sets the RTS line on open
func WithInitialRTS(state bool) PortOption {
	return func(c *portConfig) {
		c.InitialRTS = &state
	}
}

// Open opens device at rate in raw 8N1 mode with exclusive access.
//
// Failures to reach the device wrap ErrPortUnavailable together with
// ErrDeviceNotFound, ErrPermissionDenied or ErrDeviceInUse. A rate the
// driver refuses yields ErrInvalidBaudRate instead, since another rate
// may still work.
func Open(device string, rate BaudRate, opts ...PortOption) (Port, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
	}
	var config portConfig
	for _, opt := range opts {
		opt(&config)
	}
	return openNative(device, rate, config)
}

// Opener opens a port for one detection trial. Open with line options
// bound is the production implementation; tests substitute fakes.
type Opener func(device string, rate BaudRate) (Port, error)

// unavailable wraps a device-level open failure
func unavailable(device string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrPortUnavailable, device, cause)
}

// classifyOpenError maps OS level errors onto the package sentinels
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w (%v)", ErrDeviceNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w (%v)", ErrPermissionDenied, err)
	}
	return err
}
