package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultScrollback bounds the number of batches kept for redraws
const DefaultScrollback = 1000

type Terminal struct {
	viewport   viewport.Model
	formatter  *DataFormatter
	raw        []DataReceivedMsg
	scrollback int
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:   viewport.New(width, height),
		formatter:  NewDataFormatter(false, true),
		scrollback: DefaultScrollback,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

func (t *Terminal) AddMessage(msg DataReceivedMsg) {
	t.raw = append(t.raw, msg)
	if len(t.raw) > t.scrollback {
		t.raw = t.raw[len(t.raw)-t.scrollback:]
	}
	t.refresh()
}

// Lines returns the number of batches currently held
func (t *Terminal) Lines() int {
	return len(t.raw)
}

func (t *Terminal) Clear() {
	t.raw = nil
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex() {
	t.formatter.ToggleHex()
	t.refresh()
}

func (t *Terminal) refresh() {
	t.viewport.SetContent(strings.Join(t.formatter.FormatMessages(t.raw), "\n"))
	t.viewport.GotoBottom()
}

// Update only forwards resizes so the viewport never consumes rate keys
func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.WindowSizeMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
