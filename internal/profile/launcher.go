package profile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Confirm asks whether to start minicom. Anything but an answer starting
// with n means yes, including an empty line or EOF.
func Confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Run minicom now [Y/n]? ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "n")
}

// Command builds the minicom invocation for the saved profile.
func Command(ctx context.Context, name string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "minicom", name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Run starts minicom with the profile attached to the current terminal and
// waits for it to exit.
func Run(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := Command(ctx, name).Run(); err != nil {
		return fmt.Errorf("minicom: %w", err)
	}
	return nil
}
