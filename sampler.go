package baudscan

import (
	"context"
	"errors"
	"io"
	"time"
)

// Sink receives each sampled byte as soon as it is read. Implementations
// must not block; a dropped echo never affects scoring.
type Sink interface {
	Echo(b byte)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(b byte)

func (f SinkFunc) Echo(b byte) { f(b) }

type writerSink struct {
	w io.Writer
}

func (s writerSink) Echo(b byte) {
	_, _ = s.w.Write([]byte{b})
}

// WriterSink echoes raw bytes to w, ignoring write errors
func WriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

// Clock abstracts time for the sampling window
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Outcome is the verdict of sampling one candidate rate
type Outcome struct {
	Rate      BaudRate
	BytesRead int
	Printable int // Total printable bytes, never more than BytesRead
	Elapsed   time.Duration
	Accepted  bool
	Opened    bool  // False when the trial failed before a port was open
	Err       error // Read or open error that ended the trial early
}

// cancelSlice bounds a single read when the caller can cancel, so an
// interrupt is noticed without waiting out the whole window.
const cancelSlice = 100 * time.Millisecond

// Sampler scores the byte stream of one open port
type Sampler struct {
	Timeout   time.Duration
	Threshold int
	Charset   Charset
	Sink      Sink  // nil disables echo
	Clock     Clock // nil uses the system clock
}

// NewSampler builds a sampler from a detection config. The sink is
// dropped when the config is quiet.
func NewSampler(config Config, sink Sink) *Sampler {
	if config.Quiet {
		sink = nil
	}
	return &Sampler{
		Timeout:   config.Timeout,
		Threshold: config.Threshold,
		Charset:   config.Charset,
		Sink:      sink,
	}
}

func (s *Sampler) clock() Clock {
	if s.Clock == nil {
		return systemClock{}
	}
	return s.Clock
}

// Sample reads from p until the threshold is met or the window closes.
// It stops reading as soon as the candidate is accepted.
func (s *Sampler) Sample(ctx context.Context, p Port) Outcome {
	clock := s.clock()
	start := clock.Now()
	outcome := Outcome{Rate: p.Rate(), Opened: true}
	var counts tally

	for {
		if s.Charset.satisfied(counts, s.Threshold) {
			outcome.Accepted = true
			break
		}
		if err := ctx.Err(); err != nil {
			outcome.Err = err
			break
		}

		remaining := s.Timeout - clock.Now().Sub(start)
		if remaining <= 0 {
			break
		}
		if ctx.Done() != nil && remaining > cancelSlice {
			remaining = cancelSlice
		}

		b, err := p.ReadByteTimeout(remaining)
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		if err != nil {
			outcome.Err = err
			break
		}

		outcome.BytesRead++
		if s.Charset.add(&counts, b) {
			outcome.Printable++
		}
		if s.Sink != nil {
			s.Sink.Echo(b)
		}
	}

	outcome.Elapsed = clock.Now().Sub(start)
	return outcome
}
