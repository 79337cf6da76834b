package components

import (
	"strings"
	"testing"
	"time"

	"github.com/allbin/go-baudscan"
	"github.com/stretchr/testify/assert"
)

func TestPrintable(t *testing.T) {
	assert.Equal(t, "ab.c..", Printable([]byte{'a', 'b', 0x1b, 'c', '\r', 0xff}))
	assert.Equal(t, "", Printable(nil))
}

func TestDataFormatter(t *testing.T) {
	msg := DataReceivedMsg{Rate: 9600, Timestamp: time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC), Data: []byte("OK\n")}

	df := NewDataFormatter(false, false)
	assert.Equal(t, "OK.", df.FormatMessage(msg))

	df.ToggleHex()
	assert.True(t, df.ShowHex())
	assert.Equal(t, "4F 4B 0A", df.FormatMessage(msg))

	df = NewDataFormatter(false, true)
	assert.Contains(t, df.FormatMessage(msg), "12:30:00.000")
}

func TestTerminal_Scrollback(t *testing.T) {
	term := NewTerminal(40, 5)
	term.scrollback = 3
	for i := 0; i < 5; i++ {
		term.AddMessage(DataReceivedMsg{Data: []byte{byte('a' + i)}})
	}
	assert.Equal(t, 3, term.Lines())

	term.Clear()
	assert.Zero(t, term.Lines())
}

func TestRateTable_Record(t *testing.T) {
	rt := NewRateTable(baudscan.Candidates{9600, 115200}, 5)

	rt.Record(1, 10, 8)
	rt.Record(1, 10, 2)
	rt.Record(5, 1, 1)

	st := rt.Stats(1)
	assert.Equal(t, 20, st.Bytes)
	assert.Equal(t, 10, st.Printable)
	assert.InDelta(t, 0.5, st.Ratio(), 1e-9)
	assert.Zero(t, rt.Stats(0).Ratio())
	assert.True(t, strings.Contains(rt.View(), "115200"))

	rt.Reset()
	assert.Zero(t, rt.Stats(1).Bytes)
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar("/dev/ttyACM0")
	sb.SetWidth(100)

	sb.SetOpening(57600)
	assert.Contains(t, sb.Status(), "57600")

	sb.SetOpen()
	assert.NoError(t, sb.Err())

	view := sb.View(RateInfo{Rate: 57600, Index: 2, Total: 13, Bytes: 40, Printable: 30, Threshold: 25}, false)
	assert.Contains(t, view, "57600 baud")
	assert.Contains(t, view, "3/13")
	assert.Contains(t, view, "30/25 printable")
	assert.Contains(t, view, "40 bytes")
}
