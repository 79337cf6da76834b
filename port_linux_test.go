//go:build linux && !ppc && !ppc64 && !ppc64le

package baudscan

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

func TestTermiosSpeed(t *testing.T) {
	tests := []struct {
		rate BaudRate
		want uint32
		ok   bool
	}{
		{9600, unix.B9600, true},
		{115200, unix.B115200, true},
		{921600, unix.B921600, true},
		{10417, 0, false},
		{923076, 0, false},
	}

	for _, tt := range tests {
		got, ok := termiosSpeed(tt.rate)
		if ok != tt.ok || got != tt.want {
			t.Errorf("termiosSpeed(%d) = (%#o, %v), want (%#o, %v)", tt.rate, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOpenNotATerminal(t *testing.T) {
	_, err := Open("/dev/null", 9600)
	if !errors.Is(err, ErrPortUnavailable) {
		t.Errorf("Expected ErrPortUnavailable for /dev/null, got %v", err)
	}
}

func TestClassifyErrno(t *testing.T) {
	tests := []struct {
		errno error
		want  error
	}{
		{unix.EBUSY, ErrDeviceInUse},
		{unix.ENXIO, ErrDeviceNotFound},
		{unix.ENODEV, ErrDeviceNotFound},
		{unix.ENOENT, ErrDeviceNotFound},
		{unix.EACCES, ErrPermissionDenied},
	}

	for _, tt := range tests {
		if got := classifyErrno(tt.errno); !errors.Is(got, tt.want) {
			t.Errorf("classifyErrno(%v) = %v, want %v", tt.errno, got, tt.want)
		}
	}
}

func TestClosedPort(t *testing.T) {
	p := &port{fd: -1, device: "/dev/fake", rate: 9600, closed: true}

	if err := p.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	if _, err := p.ReadByteTimeout(0); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Expected ErrPortClosed, got %v", err)
	}
	if err := p.FlushInput(); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Expected ErrPortClosed, got %v", err)
	}
}

// openPty returns the path of a fresh pseudo terminal slave. Ptys accept
// termios2 but have no modem lines.
func openPty(t *testing.T) string {
	t.Helper()
	master, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Skipf("no pty support: %v", err)
	}
	t.Cleanup(func() { unix.Close(master) })

	if err := unix.IoctlSetPointerInt(master, unix.TIOCSPTLCK, 0); err != nil {
		t.Skipf("unlockpt: %v", err)
	}
	n, err := unix.IoctlGetUint32(master, unix.TIOCGPTN)
	if err != nil {
		t.Skipf("ptsname: %v", err)
	}
	return fmt.Sprintf("/dev/pts/%d", n)
}

func TestOpenPty(t *testing.T) {
	p, err := Open(openPty(t), 9600)
	if err != nil {
		t.Fatalf("Open pty: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOpenModemLineFailure(t *testing.T) {
	tests := []struct {
		name string
		opt  PortOption
	}{
		{"dtr", WithInitialDTR(true)},
		{"rts", WithInitialRTS(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Open(openPty(t), 9600, tt.opt)
			if err == nil {
				p.Close()
				t.Fatal("Expected error setting modem line on a pty")
			}
			if !errors.Is(err, ErrPortUnavailable) {
				t.Errorf("Expected ErrPortUnavailable, got %v", err)
			}
			if !errors.Is(err, unix.ENOTTY) {
				t.Errorf("Expected errno to be kept, got %v", err)
			}
		})
	}
}
