package baudscan

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// BaudRate is a serial line speed in bits per second.
type BaudRate int

func (r BaudRate) String() string {
	return strconv.Itoa(int(r))
}

// Candidates is the ordered list of rates a detection run tries.
// Order is priority: the first rate that passes wins.
type Candidates []BaudRate

// Rate set names accepted by RateSet
const (
	RateSetStandard = "standard"
	RateSetCommon   = "common"
	RateSetExtended = "extended"
)

// DefaultRateSet is tried when no explicit list or set is configured.
const DefaultRateSet = RateSetCommon

var (
	standardRates = Candidates{
		300, 600, 1200, 2400, 4800, 9600, 19200, 38400,
		57600, 115200, 230400, 460800, 921600,
	}

	commonRates = Candidates{
		115200, 9600, 57600, 38400, 19200, 230400, 4800,
		2400, 1200, 460800, 921600, 600, 300,
	}

	// Includes rates derived from common MCU crystal dividers
	// (16 MHz / n) that show up on embedded consoles.
	extendedRates = Candidates{
		923076, 921600, 461538, 460800, 312500, 256000, 230769, 230400,
		156250, 115384, 115200, 104167, 78600, 57692, 57600, 52083,
		38422, 38400, 31250, 28800, 26042, 25600, 19211, 19200,
		15625, 14406, 14400, 12800, 10417, 9606, 9600, 6400,
		5208, 4800, 3200, 2604, 2400, 1800, 1600, 1200,
		800, 600, 300, 150, 110,
	}
)

// StandardRates returns the conventional rates in ascending order.
func StandardRates() Candidates {
	return slices.Clone(standardRates)
}

// CommonRates returns the standard rates ordered by how often they are met in the field.
func CommonRates() Candidates {
	return slices.Clone(commonRates)
}

// ExtendedRates returns standard and clock-derived rates, highest first.
func ExtendedRates() Candidates {
	return slices.Clone(extendedRates)
}

// RateSetNames lists the names accepted by RateSet
func RateSetNames() []string {
	return []string{RateSetStandard, RateSetCommon, RateSetExtended}
}

// RateSet returns a copy of the named built-in candidate list.
func RateSet(name string) (Candidates, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RateSetStandard:
		return StandardRates(), nil
	case RateSetCommon, "":
		return CommonRates(), nil
	case RateSetExtended:
		return ExtendedRates(), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownRateSet, name, strings.Join(RateSetNames(), ", "))
	}
}

// ParseCandidates parses rates given as strings, each of which may itself
// be a comma-separated list ("9600,115200"). Order is preserved.
func ParseCandidates(values []string) (Candidates, error) {
	var c Candidates
	for _, v := range values {
		for _, field := range strings.Split(v, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidBaudRate, field)
			}
			c = append(c, BaudRate(n))
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the list is non-empty, positive and free of duplicates.
func (c Candidates) Validate() error {
	if len(c) == 0 {
		return ErrNoCandidates
	}
	seen := make(map[BaudRate]bool, len(c))
	for _, r := range c {
		if r <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBaudRate, r)
		}
		if seen[r] {
			return fmt.Errorf("%w: duplicate rate %d", ErrInvalidConfig, r)
		}
		seen[r] = true
	}
	return nil
}

// Index returns the position of rate in the list, or -1.
func (c Candidates) Index(rate BaudRate) int {
	return slices.Index(c, rate)
}

// Strings renders each rate, for flag defaults and display.
func (c Candidates) Strings() []string {
	out := make([]string, len(c))
	for i, r := range c {
		out[i] = r.String()
	}
	return out
}
