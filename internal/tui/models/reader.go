package models

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultPoll  = 50 * time.Millisecond
	defaultBatch = 64
)

// Reader listens on Device at whatever rate arrives on the request channel,
// reopening the port on every change, and forwards batches of bytes.
type Reader struct {
	Device string
	Open   baudscan.Opener // nil opens real ports
	Poll   time.Duration   // single read wait, also the batch flush interval
	Batch  int             // flush after this many bytes
}

// Run blocks until ctx is done. The port is closed on return.
func (r *Reader) Run(ctx context.Context, rates <-chan baudscan.BaudRate, send func(tea.Msg)) {
	poll := r.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	batch := r.Batch
	if batch <= 0 {
		batch = defaultBatch
	}

	var (
		port baudscan.Port
		rate baudscan.BaudRate
		buf  = make([]byte, 0, batch)
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		send(components.DataReceivedMsg{Rate: rate, Timestamp: time.Now(), Data: bytes.Clone(buf)})
		buf = buf[:0]
	}
	closePort := func() {
		if port != nil {
			port.Close()
			port = nil
		}
	}
	defer closePort()

	for {
		if port == nil {
			select {
			case <-ctx.Done():
				return
			case rate = <-rates:
			}
			port = r.open(rate, send)
			continue
		}

		select {
		case <-ctx.Done():
			flush()
			return
		case next := <-rates:
			flush()
			closePort()
			rate = next
			port = r.open(rate, send)
			continue
		default:
		}

		b, err := port.ReadByteTimeout(poll)
		switch {
		case err == nil:
			buf = append(buf, b)
			if len(buf) >= batch {
				flush()
			}
		case errors.Is(err, baudscan.ErrReadTimeout):
			flush()
		default:
			flush()
			closePort()
			send(PortStatusMsg{Rate: rate, Error: err})
		}
	}
}

func (r *Reader) open(rate baudscan.BaudRate, send func(tea.Msg)) baudscan.Port {
	open := r.Open
	if open == nil {
		open = func(device string, rate baudscan.BaudRate) (baudscan.Port, error) {
			return baudscan.Open(device, rate)
		}
	}

	port, err := open(r.Device, rate)
	if err != nil {
		send(PortStatusMsg{Rate: rate, Error: err})
		return nil
	}
	_ = port.FlushInput()
	send(PortStatusMsg{Rate: rate, Open: true})
	return port
}
