package models

import (
	"testing"
	"time"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tuneRates = baudscan.Candidates{9600, 19200, 115200}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func latest(t *testing.T, m *Tune) baudscan.BaudRate {
	t.Helper()
	select {
	case r := <-m.Requests():
		return r
	default:
		t.Fatal("no pending rate request")
		return 0
	}
}

func TestTune_StartRate(t *testing.T) {
	m := NewTune("/dev/ttyUSB0", tuneRates, 115200, 25, baudscan.DefaultCharset())
	assert.EqualValues(t, 115200, m.Rate())
	assert.EqualValues(t, 115200, latest(t, m))

	m = NewTune("/dev/ttyUSB0", tuneRates, 1234, 25, baudscan.DefaultCharset())
	assert.EqualValues(t, 9600, m.Rate())
}

func TestTune_StepWraps(t *testing.T) {
	m := NewTune("/dev/ttyUSB0", tuneRates, 9600, 25, baudscan.DefaultCharset())

	m.Update(keyMsg("down"))
	assert.EqualValues(t, 115200, m.Rate())

	m.Update(keyMsg("k"))
	assert.EqualValues(t, 9600, m.Rate())

	m.Update(keyMsg("u"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("up"))
	assert.EqualValues(t, 19200, m.Rate())

	// only the most recent request is pending
	assert.EqualValues(t, 19200, latest(t, m))
	select {
	case r := <-m.Requests():
		t.Fatalf("unexpected extra request %d", r)
	default:
	}
}

func TestTune_ScoresCurrentRateOnly(t *testing.T) {
	m := NewTune("/dev/ttyUSB0", tuneRates, 9600, 25, baudscan.DefaultCharset())

	m.Update(components.DataReceivedMsg{Rate: 9600, Timestamp: time.Now(), Data: []byte("ok\x00\xff")})
	bytes, printable := m.Score()
	assert.Equal(t, 4, bytes)
	assert.Equal(t, 2, printable)

	m.Update(components.DataReceivedMsg{Rate: 19200, Data: []byte("stale")})
	bytes, _ = m.Score()
	assert.Equal(t, 4, bytes)

	m.Step(1)
	bytes, printable = m.Score()
	assert.Zero(t, bytes)
	assert.Zero(t, printable)
}

func TestTune_Accept(t *testing.T) {
	m := NewTune("/dev/ttyUSB0", tuneRates, 19200, 25, baudscan.DefaultCharset())

	_, ok := m.Accepted()
	assert.False(t, ok)

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	rate, ok := m.Accepted()
	assert.True(t, ok)
	assert.EqualValues(t, 19200, rate)
}

func TestTune_QuitWithoutAccepting(t *testing.T) {
	m := NewTune("/dev/ttyUSB0", tuneRates, 19200, 25, baudscan.DefaultCharset())

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, ok := m.Accepted()
	assert.False(t, ok)
}

func TestTune_View(t *testing.T) {
	m := NewTune("/dev/ttyUSB0", tuneRates, 9600, 25, baudscan.DefaultCharset())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m.Update(PortStatusMsg{Rate: 9600, Open: true})
	m.Update(components.DataReceivedMsg{Rate: 9600, Timestamp: time.Now(), Data: []byte("login:")})

	view := m.View()
	assert.Contains(t, view, "9600 baud")
	assert.Contains(t, view, "/dev/ttyUSB0")
	assert.Contains(t, view, "login:")
	assert.Contains(t, view, "6/25 printable")
}
