package baudscan

import (
	"fmt"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scriptPort plays back data, advancing the fake clock by perByte for every
// byte and by the full timeout when it has nothing left to give.
type scriptPort struct {
	device  string
	rate    BaudRate
	data    []byte
	perByte time.Duration
	clock   *fakeClock
	readErr error
	events  *[]string

	reads   int
	flushes int
	closes  int
}

func (p *scriptPort) ReadByteTimeout(timeout time.Duration) (byte, error) {
	p.reads++
	if len(p.data) > 0 {
		b := p.data[0]
		p.data = p.data[1:]
		p.clock.Advance(p.perByte)
		return b, nil
	}
	if p.readErr != nil {
		return 0, p.readErr
	}
	if timeout > 0 {
		p.clock.Advance(timeout)
	}
	return 0, ErrReadTimeout
}

func (p *scriptPort) FlushInput() error {
	p.flushes++
	return nil
}

func (p *scriptPort) Close() error {
	if p.closes == 0 && p.events != nil {
		*p.events = append(*p.events, fmt.Sprintf("close %d", p.rate))
	}
	p.closes++
	return nil
}

func (p *scriptPort) Device() string { return p.device }
func (p *scriptPort) Rate() BaudRate { return p.rate }

// fakeDevice hands out scriptPorts per rate and records open/close order
type fakeDevice struct {
	clock    *fakeClock
	streams  map[BaudRate]string
	openErrs map[BaudRate]error
	perByte  time.Duration

	events []string
	ports  []*scriptPort
}

func newFakeDevice(clock *fakeClock) *fakeDevice {
	return &fakeDevice{
		clock:    clock,
		streams:  map[BaudRate]string{},
		openErrs: map[BaudRate]error{},
		perByte:  time.Millisecond,
	}
}

func (d *fakeDevice) open(device string, rate BaudRate) (Port, error) {
	d.events = append(d.events, fmt.Sprintf("open %d", rate))
	if err := d.openErrs[rate]; err != nil {
		return nil, err
	}
	p := &scriptPort{
		device:  device,
		rate:    rate,
		data:    []byte(d.streams[rate]),
		perByte: d.perByte,
		clock:   d.clock,
		events:  &d.events,
	}
	d.ports = append(d.ports, p)
	return p, nil
}

// recordingObserver keeps every callback in order
type recordingObserver struct {
	started  []BaudRate
	finished []Outcome
}

func (o *recordingObserver) TrialStarted(rate BaudRate) { o.started = append(o.started, rate) }

func (o *recordingObserver) TrialFinished(outcome Outcome) {
	o.finished = append(o.finished, outcome)
}
