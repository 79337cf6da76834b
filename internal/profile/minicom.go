// Package profile persists detected serial settings as minicom profiles and
// keeps a TOML record of every profile baudscan has written.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/allbin/go-baudscan"
)

// DefaultMinicomDir is where minicom looks up minirc.<name> files.
const DefaultMinicomDir = "/etc/minicom"

var (
	ErrInvalidName     = errors.New("invalid profile name")
	ErrProfileNotFound = errors.New("profile not found")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateName rejects names that would escape the minicom directory or
// that minicom cannot load.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Minicom is the subset of a minicom profile baudscan knows how to fill in.
type Minicom struct {
	Device string
	Rate   baudscan.BaudRate
}

const rule = "########################################################################\n"

// Render returns the minirc file contents, fixed at 8N1 without hardware
// flow control.
func (m Minicom) Render() string {
	var b strings.Builder
	b.WriteString(rule)
	b.WriteString("# Minicom configuration file - use \"minicom -s\" to change parameters.\n")
	fmt.Fprintf(&b, "pu port             %s\n", m.Device)
	fmt.Fprintf(&b, "pu baudrate         %d\n", int(m.Rate))
	b.WriteString("pu bits             8\n")
	b.WriteString("pu parity           N\n")
	b.WriteString("pu stopbits         1\n")
	b.WriteString("pu rtscts           No\n")
	b.WriteString(rule)
	return b.String()
}

// MinicomPath returns the minirc path for name inside dir.
func MinicomPath(dir, name string) string {
	if dir == "" {
		dir = DefaultMinicomDir
	}
	return filepath.Join(dir, "minirc."+name)
}

// WriteMinicom writes m as <dir>/minirc.<name> and returns the path written.
func WriteMinicom(dir, name string, m Minicom) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if m.Device == "" || m.Rate <= 0 {
		return "", fmt.Errorf("%w: profile needs a device and a positive rate", baudscan.ErrInvalidConfig)
	}

	path := MinicomPath(dir, name)
	if err := os.WriteFile(path, []byte(m.Render()), 0o644); err != nil {
		return "", fmt.Errorf("error saving minicom config file: %w", err)
	}
	return path, nil
}
