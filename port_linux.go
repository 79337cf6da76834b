//go:build linux && !ppc && !ppc64 && !ppc64le

package baudscan

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// port is the termios2 implementation of the Port interface
type port struct {
	mu     sync.RWMutex
	fd     int
	device string
	rate   BaudRate
	closed bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

// termiosSpeed converts a standard baud rate to the termios speed code.
// Rates without a code are programmed through BOTHER.
func termiosSpeed(rate BaudRate) (uint32, bool) {
	switch rate {
	case 50:
		return unix.B50, true
	case 75:
		return unix.B75, true
	case 110:
		return unix.B110, true
	case 134:
		return unix.B134, true
	case 150:
		return unix.B150, true
	case 200:
		return unix.B200, true
	case 300:
		return unix.B300, true
	case 600:
		return unix.B600, true
	case 1200:
		return unix.B1200, true
	case 1800:
		return unix.B1800, true
	case 2400:
		return unix.B2400, true
	case 4800:
		return unix.B4800, true
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	case 230400:
		return unix.B230400, true
	case 460800:
		return unix.B460800, true
	case 500000:
		return unix.B500000, true
	case 576000:
		return unix.B576000, true
	case 921600:
		return unix.B921600, true
	case 1000000:
		return unix.B1000000, true
	case 1152000:
		return unix.B1152000, true
	case 1500000:
		return unix.B1500000, true
	case 2000000:
		return unix.B2000000, true
	case 2500000:
		return unix.B2500000, true
	case 3000000:
		return unix.B3000000, true
	case 3500000:
		return unix.B3500000, true
	case 4000000:
		return unix.B4000000, true
	default:
		return 0, false
	}
}

// classifyErrno refines classifyOpenError with tty specific errnos
func classifyErrno(err error) error {
	switch {
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w (%v)", ErrDeviceInUse, err)
	case errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w (%v)", ErrDeviceNotFound, err)
	}
	return classifyOpenError(err)
}

func openNative(device string, rate BaudRate, config portConfig) (Port, error) {
	// O_NONBLOCK keeps open from waiting on carrier; reads are gated by poll
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, unavailable(device, classifyErrno(err))
	}

	if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
		unix.Close(fd)
		return nil, unavailable(device, classifyErrno(err))
	}

	if err := configurePort(fd, device, rate); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if config.InitialDTR != nil {
		if err := setModemLine(fd, unix.TIOCM_DTR, *config.InitialDTR); err != nil {
			unix.Close(fd)
			return nil, unavailable(device, fmt.Errorf("failed to set initial DTR: %w", err))
		}
	}
	if config.InitialRTS != nil {
		if err := setModemLine(fd, unix.TIOCM_RTS, *config.InitialRTS); err != nil {
			unix.Close(fd)
			return nil, unavailable(device, fmt.Errorf("failed to set initial RTS: %w", err))
		}
	}

	return &port{
		fd:     fd,
		device: device,
		rate:   rate,
	}, nil
}

// configurePort puts the line in raw 8N1 mode at rate
func configurePort(fd int, device string, rate BaudRate) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS2)
	if err != nil {
		// Not a tty at all
		return unavailable(device, fmt.Errorf("failed to get termios: %w", err))
	}

	termios.Cflag = unix.CS8 | unix.CREAD | unix.CLOCAL
	termios.Iflag = 0 // No input processing
	termios.Oflag = 0 // No output processing
	termios.Lflag = 0 // No line processing (raw mode)

	// Reads never block in the driver
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	if speed, ok := termiosSpeed(rate); ok {
		termios.Cflag |= speed
	} else {
		termios.Cflag |= unix.BOTHER
	}
	termios.Ispeed = uint32(rate)
	termios.Ospeed = uint32(rate)

	if err := unix.IoctlSetTermios(fd, unix.TCSETS2, termios); err != nil {
		if errors.Is(err, unix.EINVAL) {
			return fmt.Errorf("%w: %d not supported by driver", ErrInvalidBaudRate, rate)
		}
		return unavailable(device, fmt.Errorf("failed to set termios: %w", err))
	}
	return nil
}

func setModemLine(fd int, line int, state bool) error {
	if state {
		return unix.IoctlSetInt(fd, unix.TIOCMBIS, line)
	}
	return unix.IoctlSetInt(fd, unix.TIOCMBIC, line)
}

// waitReadable polls fd for input for up to timeout
func waitReadable(fd int, timeout time.Duration) (bool, error) {
	ms := 0
	if timeout > 0 {
		ms = int((timeout + time.Millisecond - 1) / time.Millisecond)
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll failed: %w", err)
		}
		if n == 0 {
			return false, nil
		}
		if fds[0].Revents&unix.POLLIN == 0 {
			// POLLHUP, POLLERR or POLLNVAL without data
			return false, fmt.Errorf("device error (revents %#x)", fds[0].Revents)
		}
		return true, nil
	}
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

	ready, err := waitReadable(p.fd, timeout)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", p.device, err)
	}
	if !ready {
		return 0, ErrReadTimeout
	}

	var buf [1]byte
	n, err := unix.Read(p.fd, buf[:])
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, ErrReadTimeout
	}
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

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

// Close closes the serial port
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	err := unix.Close(p.fd)
	p.closed = true
	return err
}
