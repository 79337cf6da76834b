package baudscan

import "time"

// Defaults used by DefaultConfig
const (
	DefaultDevice    = "/dev/ttyUSB0"
	DefaultTimeout   = 5 * time.Second
	DefaultThreshold = 25
)

// Config holds the settings of one detection run
type Config struct {
	Device    string        // Passed to Open unchanged
	Timeout   time.Duration // Sampling window per candidate
	Threshold int           // Printable bytes needed to accept a rate
	Quiet     bool          // Suppress echo of sampled bytes
	Charset   Charset
	DTR       *bool // Modem line states applied at open, nil leaves driver default
	RTS       *bool
}

// Option is a functional option for configuring a detection run
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Device:    DefaultDevice,
		Timeout:   DefaultTimeout,
		Threshold: DefaultThreshold,
		Charset:   DefaultCharset(),
	}
}

// NewConfig applies opts on top of DefaultConfig and validates the result
func NewConfig(opts ...Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks invariants that options cannot check on their own
func (c Config) Validate() error {
	if c.Device == "" {
		return ErrInvalidConfig
	}
	if c.Timeout <= 0 || c.Threshold < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// WithDevice sets the device identifier (e.g. /dev/ttyUSB0)
func WithDevice(device string) Option {
	return func(c *Config) error {
		if device == "" {
			return ErrInvalidConfig
		}
		c.Device = device
		return nil
	}
}

// WithTimeout sets the sampling window per candidate
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.Timeout = timeout
		return nil
	}
}

// WithThreshold sets the minimum printable count. Zero accepts the first candidate.
func WithThreshold(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return ErrInvalidConfig
		}
		c.Threshold = n
		return nil
	}
}

// WithQuiet disables echoing of sampled bytes
func WithQuiet(quiet bool) Option {
	return func(c *Config) error {
		c.Quiet = quiet
		return nil
	}
}

// WithCharset sets the printable policy
func WithCharset(cs Charset) Option {
	return func(c *Config) error {
		c.Charset = cs
		return nil
	}
}

// WithDTR sets the DTR line state applied when each candidate is opened
func WithDTR(state bool) Option {
	return func(c *Config) error {
		c.DTR = &state
		return nil
	}
}

// WithRTS sets the RTS line state applied when each candidate is opened
func WithRTS(state bool) Option {
	return func(c *Config) error {
		c.RTS = &state
		return nil
	}
}

// portOptions translates line settings into options for Open
func (c Config) portOptions() []PortOption {
	var opts []PortOption
	if c.DTR != nil {
		opts = append(opts, WithInitialDTR(*c.DTR))
	}
	if c.RTS != nil {
		opts = append(opts, WithInitialRTS(*c.RTS))
	}
	return opts
}

// Opener returns an Opener that opens real ports with the config's modem
// line settings
func (c Config) Opener() Opener {
	opts := c.portOptions()
	return func(device string, rate BaudRate) (Port, error) {
		return Open(device, rate, opts...)
	}
}
