package baudscan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is the terminal value of a detection run: either Found(rate) or
// NotFound().
type Result struct {
	rate   BaudRate
	found  bool
	trials int
	runID  string
}

// Found returns a result carrying the accepted rate
func Found(rate BaudRate) Result {
	return Result{rate: rate, found: true}
}

// NotFound returns the result of an exhausted candidate list
func NotFound() Result {
	return Result{}
}

// Rate returns the detected rate and whether one was found
func (r Result) Rate() (BaudRate, bool) {
	return r.rate, r.found
}

// IsFound reports whether a rate was accepted
func (r Result) IsFound() bool {
	return r.found
}

// Trials is the number of candidates that were sampled
func (r Result) Trials() int {
	return r.trials
}

// RunID identifies the run in logs and saved profiles
func (r Result) RunID() string {
	return r.runID
}

func (r Result) String() string {
	if !r.found {
		return "not found"
	}
	return fmt.Sprintf("found %d baud", r.rate)
}

// Observer is notified around each trial. TrialFinished is called after
// the trial's port has been closed.
type Observer interface {
	TrialStarted(rate BaudRate)
	TrialFinished(outcome Outcome)
}

type multiObserver []Observer

func (m multiObserver) TrialStarted(rate BaudRate) {
	for _, o := range m {
		o.TrialStarted(rate)
	}
}

func (m multiObserver) TrialFinished(outcome Outcome) {
	for _, o := range m {
		o.TrialFinished(outcome)
	}
}

// Observers fans out notifications to every non-nil observer
func Observers(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

// Detector drives the candidate search. The zero value is ready to use
// and opens real serial ports.
type Detector struct {
	Open     Opener   // nil opens the device with Open
	Observer Observer // optional
	Sink     Sink     // echo target, ignored when the config is quiet
	Clock    Clock    // nil uses the system clock
	Logger   *zap.Logger
}

// Detect runs a detection against a real serial device
func Detect(ctx context.Context, config Config, candidates Candidates, sink Sink) (Result, error) {
	d := &Detector{Sink: sink}
	return d.Run(ctx, config, candidates)
}

func (d *Detector) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *Detector) opener(config Config) Opener {
	if d.Open != nil {
		return d.Open
	}
	return config.Opener()
}

// Run tries candidates strictly in order and returns the first accepted
// rate. Only a device that cannot be opened at all, an invalid config or
// a cancelled context produce an error; exhausting the list is NotFound.
func (d *Detector) Run(ctx context.Context, config Config, candidates Candidates) (Result, error) {
	runID := uuid.NewString()
	result := Result{runID: runID}

	if err := config.Validate(); err != nil {
		return result, err
	}
	if err := candidates.Validate(); err != nil {
		return result, err
	}

	log := d.logger().With(zap.String("run_id", runID), zap.String("device", config.Device))
	log.Info("starting detection",
		zap.Int("candidates", len(candidates)),
		zap.Duration("timeout", config.Timeout),
		zap.Int("threshold", config.Threshold))

	sampler := NewSampler(config, d.Sink)
	sampler.Clock = d.Clock
	open := d.opener(config)
	observer := Observers(d.Observer)

	for _, rate := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		observer.TrialStarted(rate)
		outcome, err := d.trial(ctx, log, open, sampler, config.Device, rate)
		observer.TrialFinished(outcome)

		if err != nil {
			if errors.Is(err, ErrInvalidBaudRate) {
				log.Warn("rate rejected by driver, skipping", zap.Stringer("rate", rate), zap.Error(err))
				continue
			}
			log.Error("cannot open device", zap.Stringer("rate", rate), zap.Error(err))
			return result, err
		}
		result.trials++

		if ctx.Err() != nil && errors.Is(outcome.Err, ctx.Err()) {
			return result, ctx.Err()
		}

		log.Debug("trial finished",
			zap.Stringer("rate", rate),
			zap.Int("bytes", outcome.BytesRead),
			zap.Int("printable", outcome.Printable),
			zap.Duration("elapsed", outcome.Elapsed),
			zap.Bool("accepted", outcome.Accepted),
			zap.NamedError("read_error", outcome.Err))

		if outcome.Accepted {
			result.rate = rate
			result.found = true
			log.Info("baud rate detected", zap.Stringer("rate", rate), zap.Int("trials", result.trials))
			return result, nil
		}
	}

	log.Info("no candidate reached the threshold", zap.Int("trials", result.trials))
	return result, nil
}

// trial owns one port for the duration of one sample. The port is closed
// before trial returns on every path.
func (d *Detector) trial(ctx context.Context, log *zap.Logger, open Opener, sampler *Sampler, device string, rate BaudRate) (Outcome, error) {
	p, err := open(device, rate)
	if err != nil {
		return Outcome{Rate: rate, Err: err}, err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn("close failed", zap.Stringer("rate", rate), zap.Error(err))
		}
	}()

	if err := p.FlushInput(); err != nil {
		log.Debug("flush failed", zap.Stringer("rate", rate), zap.Error(err))
	}

	log.Debug("sampling", zap.Stringer("rate", rate))
	return sampler.Sample(ctx, p), nil
}
