package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/styles"
)

// DataReceivedMsg carries a batch of bytes read at Rate
type DataReceivedMsg struct {
	Rate      baudscan.BaudRate
	Timestamp time.Time
	Data      []byte
}

type DataFormatter struct {
	showHex    bool
	timestamps bool
}

func NewDataFormatter(showHex, timestamps bool) *DataFormatter {
	return &DataFormatter{showHex: showHex, timestamps: timestamps}
}

func (df *DataFormatter) ToggleHex() {
	df.showHex = !df.showHex
}

func (df *DataFormatter) ShowHex() bool {
	return df.showHex
}

// FormatMessage renders one batch on a single line. Control bytes are shown
// as dots so line noise at a wrong rate cannot drive the terminal.
func (df *DataFormatter) FormatMessage(msg DataReceivedMsg) string {
	var body string
	if df.showHex {
		body = fmt.Sprintf("% X", msg.Data)
	} else {
		body = Printable(msg.Data)
	}

	if !df.timestamps {
		return body
	}
	ts := styles.TimestampStyle.Render("[" + msg.Timestamp.Format("15:04:05.000") + "]")
	return ts + " " + body
}

func (df *DataFormatter) FormatMessages(messages []DataReceivedMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

// Printable replaces everything outside 0x20-0x7E with '.'
func Printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 0x20 && c <= 0x7E {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
