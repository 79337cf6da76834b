package profile

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"  No \n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Run minicom now [Y/n]? ", out.String())
	}
}

func TestCommand(t *testing.T) {
	cmd := Command(context.Background(), "lab")
	assert.Equal(t, []string{"minicom", "lab"}, cmd.Args)
}

func TestRun_InvalidName(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), "../x"), ErrInvalidName)
}
