package baudscan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(clock *fakeClock, threshold int, sink Sink) *Sampler {
	return &Sampler{
		Timeout:   time.Second,
		Threshold: threshold,
		Charset:   DefaultCharset(),
		Sink:      sink,
		Clock:     clock,
	}
}

func TestSample_ThresholdInclusive(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 9600, data: []byte("0123456789extra"), perByte: time.Millisecond, clock: clock}

	out := newTestSampler(clock, 10, nil).Sample(context.Background(), p)

	assert.True(t, out.Accepted)
	assert.Equal(t, 10, out.Printable)
	assert.Equal(t, 10, out.BytesRead, "reading stops at the threshold")
	assert.Equal(t, 10*time.Millisecond, out.Elapsed)
	assert.Len(t, p.data, 5)
}

func TestSample_OneShortOfThreshold(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 9600, data: []byte("012345678"), perByte: time.Millisecond, clock: clock}

	out := newTestSampler(clock, 10, nil).Sample(context.Background(), p)

	assert.False(t, out.Accepted)
	assert.Equal(t, 9, out.Printable)
	assert.Equal(t, time.Second, out.Elapsed, "waits out the full window")
	assert.NoError(t, out.Err)
}

func TestSample_PrintableNeverExceedsBytesRead(t *testing.T) {
	clock := newFakeClock()
	noisy := strings.Repeat("a\x00\xfe", 30)
	p := &scriptPort{rate: 115200, data: []byte(noisy), perByte: time.Millisecond, clock: clock}

	out := newTestSampler(clock, 25, nil).Sample(context.Background(), p)

	assert.True(t, out.Accepted)
	assert.Equal(t, 25, out.Printable)
	assert.LessOrEqual(t, out.Printable, out.BytesRead)
	assert.Equal(t, 73, out.BytesRead)
}

func TestSample_ResetOnNoiseNeedsUnbrokenRun(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 9600, data: []byte(strings.Repeat("abcd\x00", 6)), perByte: time.Millisecond, clock: clock}
	sampler := newTestSampler(clock, 10, nil)
	sampler.Charset.ResetOnNoise = true

	out := sampler.Sample(context.Background(), p)

	assert.False(t, out.Accepted, "no run of 10 printable bytes")
	assert.Equal(t, 24, out.Printable, "total count is kept across resets")
	assert.Equal(t, 30, out.BytesRead)
	assert.GreaterOrEqual(t, out.Printable, sampler.Threshold)
	assert.Equal(t, time.Second, out.Elapsed)
}

func TestSample_RequireText(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		accepted  bool
		bytesRead int
	}{
		{"letters only", "abcdefghij", false, 10},
		{"prose", "hello, world", true, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			p := &scriptPort{rate: 9600, data: []byte(tt.data), perByte: time.Millisecond, clock: clock}
			sampler := newTestSampler(clock, 5, nil)
			sampler.Charset.RequireText = true

			out := sampler.Sample(context.Background(), p)

			assert.Equal(t, tt.accepted, out.Accepted)
			assert.Equal(t, tt.bytesRead, out.BytesRead)
		})
	}
}

func TestSample_SilentDevice(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 4800, clock: clock}

	out := newTestSampler(clock, 1, nil).Sample(context.Background(), p)

	assert.False(t, out.Accepted)
	assert.Zero(t, out.BytesRead)
	assert.Zero(t, out.Printable)
	assert.Equal(t, time.Second, out.Elapsed)
	assert.True(t, out.Opened)
}

func TestSample_ZeroThresholdAcceptsWithoutReading(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 300, data: []byte("x"), clock: clock}

	out := newTestSampler(clock, 0, nil).Sample(context.Background(), p)

	assert.True(t, out.Accepted)
	assert.Zero(t, out.BytesRead)
	assert.Zero(t, p.reads)
}

func TestSample_EchoesEveryByte(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 9600, data: []byte("ab\x01c"), perByte: time.Millisecond, clock: clock}

	var echoed []byte
	sink := SinkFunc(func(b byte) { echoed = append(echoed, b) })
	newTestSampler(clock, 50, sink).Sample(context.Background(), p)

	assert.Equal(t, []byte("ab\x01c"), echoed)
}

func TestNewSampler_QuietDropsSink(t *testing.T) {
	config, err := NewConfig(WithQuiet(true))
	require.NoError(t, err)

	s := NewSampler(config, SinkFunc(func(byte) { t.Error("echo while quiet") }))
	assert.Nil(t, s.Sink)
	assert.Equal(t, config.Timeout, s.Timeout)
	assert.Equal(t, config.Threshold, s.Threshold)
}

func TestSample_ReadErrorEndsTrial(t *testing.T) {
	clock := newFakeClock()
	boom := errors.New("device unplugged")
	p := &scriptPort{rate: 9600, data: []byte("abc"), perByte: time.Millisecond, clock: clock, readErr: boom}

	out := newTestSampler(clock, 10, nil).Sample(context.Background(), p)

	assert.False(t, out.Accepted)
	assert.Equal(t, 3, out.BytesRead)
	assert.ErrorIs(t, out.Err, boom)
}

func TestSample_CancelledContext(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 9600, clock: clock}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newTestSampler(clock, 10, nil).Sample(ctx, p)

	assert.False(t, out.Accepted)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Zero(t, p.reads)
}

func TestSample_CancellableReadsAreSliced(t *testing.T) {
	clock := newFakeClock()
	p := &scriptPort{rate: 9600, clock: clock}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := newTestSampler(clock, 10, nil).Sample(ctx, p)

	assert.Equal(t, time.Second, out.Elapsed)
	assert.Equal(t, int(time.Second/cancelSlice), p.reads)
}

func TestWriterSink(t *testing.T) {
	var b strings.Builder
	sink := WriterSink(&b)
	sink.Echo('o')
	sink.Echo('k')
	assert.Equal(t, "ok", b.String())
}
