package baudscan

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent_device_12345", 9600)
	if err == nil {
		t.Fatal("Expected error when opening non-existent device")
	}
	if !errors.Is(err, ErrPortUnavailable) {
		t.Errorf("Expected ErrPortUnavailable, got %v", err)
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenInvalidRate(t *testing.T) {
	for _, rate := range []BaudRate{0, -9600} {
		_, err := Open("/dev/ttyUSB0", rate)
		if !errors.Is(err, ErrInvalidBaudRate) {
			t.Errorf("Open at %d: expected ErrInvalidBaudRate, got %v", rate, err)
		}
		if errors.Is(err, ErrPortUnavailable) {
			t.Errorf("Open at %d: an invalid rate must not look like an unavailable port", rate)
		}
	}
}

func TestClassifyOpenError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{fmt.Errorf("open: %w", fs.ErrNotExist), ErrDeviceNotFound},
		{fmt.Errorf("open: %w", fs.ErrPermission), ErrPermissionDenied},
	}

	for _, tt := range tests {
		if got := classifyOpenError(tt.err); !errors.Is(got, tt.want) {
			t.Errorf("classifyOpenError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	other := errors.New("io error")
	if got := classifyOpenError(other); got != other {
		t.Errorf("unrelated errors must pass through, got %v", got)
	}
}

func TestPortOptions(t *testing.T) {
	var c portConfig
	WithInitialDTR(true)(&c)
	WithInitialRTS(false)(&c)

	if c.InitialDTR == nil || !*c.InitialDTR {
		t.Error("Expected InitialDTR true")
	}
	if c.InitialRTS == nil || *c.InitialRTS {
		t.Error("Expected InitialRTS false")
	}
}
