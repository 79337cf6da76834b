//go:build !linux || ppc || ppc64 || ppc64le

package baudscan

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

// port wraps a go.bug.st/serial port on platforms without the termios2 path
type port struct {
	mu     sync.RWMutex
	sp     serial.Port
	device string
	rate   BaudRate
	closed bool
}

var _ Port = (*port)(nil)

func openNative(device string, rate BaudRate, config portConfig) (Port, error) {
	mode := &serial.Mode{
		BaudRate: int(rate),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if config.InitialDTR != nil || config.InitialRTS != nil {
		// Unset lines keep the library default of asserted
		bits := &serial.ModemOutputBits{DTR: true, RTS: true}
		if config.InitialDTR != nil {
			bits.DTR = *config.InitialDTR
		}
		if config.InitialRTS != nil {
			bits.RTS = *config.InitialRTS
		}
		mode.InitialStatusBits = bits
	}

	sp, err := serial.Open(device, mode)
	if err != nil {
		return nil, classifyPortError(device, rate, err)
	}
	return &port{sp: sp, device: device, rate: rate}, nil
}

// classifyPortError maps go.bug.st/serial errors onto the package sentinels
func classifyPortError(device string, rate BaudRate, err error) error {
	var pe *serial.PortError
	if errors.As(err, &pe) {
		switch pe.Code() {
		case serial.PortBusy:
			return unavailable(device, fmt.Errorf("%w (%v)", ErrDeviceInUse, err))
		case serial.PortNotFound:
			return unavailable(device, fmt.Errorf("%w (%v)", ErrDeviceNotFound, err))
		case serial.PermissionDenied:
			return unavailable(device, fmt.Errorf("%w (%v)", ErrPermissionDenied, err))
		case serial.InvalidSpeed:
			return fmt.Errorf("%w: %d not supported by driver", ErrInvalidBaudRate, rate)
		}
	}
	return unavailable(device, classifyOpenError(err))
}

func (p *port) Device() string { return p.device }

func (p *port) Rate() BaudRate { return p.rate }

// ReadByteTimeout reads a single byte, waiting at most timeout
func (p *port) ReadByteTimeout(timeout time.Duration) (byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if timeout < 0 {
		timeout = 0
	}
	if err := p.sp.SetReadTimeout(timeout); err != nil {
		return 0, fmt.Errorf("read %s: %w", p.device, err)
	}

	var buf [1]byte
	n, err := p.sp.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", p.device, err)
	}
	if n == 0 {
		return 0, ErrReadTimeout
	}
	return buf[0], nil
}

// FlushInput discards any unread input data
func (p *port) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}
	return p.sp.ResetInputBuffer()
}

// Close closes the serial port
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.sp.Close()
}
