package baudscan

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateSet(t *testing.T) {
	tests := []struct {
		name  string
		first BaudRate
		size  int
	}{
		{"standard", 300, 13},
		{"common", 115200, 13},
		{"", 115200, 13},
		{" Extended ", 923076, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := RateSet(tt.name)
			if err != nil {
				t.Fatalf("RateSet(%q) failed: %v", tt.name, err)
			}
			if len(c) != tt.size {
				t.Errorf("RateSet(%q) has %d rates, want %d", tt.name, len(c), tt.size)
			}
			if c[0] != tt.first {
				t.Errorf("RateSet(%q)[0] = %d, want %d", tt.name, c[0], tt.first)
			}
			if err := c.Validate(); err != nil {
				t.Errorf("RateSet(%q) is not a valid candidate list: %v", tt.name, err)
			}
		})
	}

	if _, err := RateSet("fast"); !errors.Is(err, ErrUnknownRateSet) {
		t.Errorf("expected ErrUnknownRateSet, got %v", err)
	}
}

func TestRateSetsAreCopies(t *testing.T) {
	c := StandardRates()
	c[0] = 1
	assert.EqualValues(t, 300, StandardRates()[0])
}

func TestStandardRatesAscending(t *testing.T) {
	assert.True(t, slices.IsSorted(StandardRates()))

	common := CommonRates()
	slices.Sort(common)
	assert.Equal(t, StandardRates(), common, "common is a reordering of standard")
}

func TestExtendedRatesDescending(t *testing.T) {
	ext := ExtendedRates()
	for i := 1; i < len(ext); i++ {
		assert.Greater(t, ext[i-1], ext[i])
	}
	assert.Contains(t, ext, BaudRate(10417))
}

func TestParseCandidates(t *testing.T) {
	c, err := ParseCandidates([]string{"115200, 9600", "57600"})
	require.NoError(t, err)
	assert.Equal(t, Candidates{115200, 9600, 57600}, c)

	_, err = ParseCandidates([]string{"fast"})
	assert.ErrorIs(t, err, ErrInvalidBaudRate)

	_, err = ParseCandidates([]string{"9600,9600"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseCandidates([]string{" , "})
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = ParseCandidates([]string{"-300"})
	assert.ErrorIs(t, err, ErrInvalidBaudRate)
}

func TestCandidatesHelpers(t *testing.T) {
	c := Candidates{9600, 115200}
	assert.Equal(t, 1, c.Index(115200))
	assert.Equal(t, -1, c.Index(300))
	assert.Equal(t, []string{"9600", "115200"}, c.Strings())
	assert.Equal(t, "9600", BaudRate(9600).String())
}
