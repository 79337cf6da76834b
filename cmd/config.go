/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/profile"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Viper keys. Nested keys map to BAUDSCAN_CHARSET_REQUIRE_TEXT and so on.
const (
	keyDevice       = "device"
	keyTimeout      = "timeout"
	keyThreshold    = "threshold"
	keyQuiet        = "quiet"
	keyRateSet      = "rate_set"
	keyRates        = "rates"
	keyWhitespace   = "charset.whitespace"
	keyRequireText  = "charset.require_text"
	keyResetOnNoise = "charset.reset_on_noise"
	keyDTR          = "dtr"
	keyRTS          = "rts"
	keyMinicomDir   = "profile.minicom_dir"
	keyProfileStore = "profile.store"
)

const (
	defaultThreshold = baudscan.DefaultThreshold
	defaultRateSet   = baudscan.DefaultRateSet
)

func rateSetNames() []string {
	return baudscan.RateSetNames()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyDevice, baudscan.DefaultDevice)
	v.SetDefault(keyTimeout, baudscan.DefaultTimeout)
	v.SetDefault(keyThreshold, baudscan.DefaultThreshold)
	v.SetDefault(keyQuiet, false)
	v.SetDefault(keyRateSet, defaultRateSet)
	v.SetDefault(keyWhitespace, true)
	v.SetDefault(keyRequireText, false)
	v.SetDefault(keyResetOnNoise, false)
	v.SetDefault(keyMinicomDir, profile.DefaultMinicomDir)
}

func bindFlag(key string, flags *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// loadDetectionConfig builds the detection config and candidate list from
// flags, environment and config file. An empty device falls back to the
// configured default.
func loadDetectionConfig(v *viper.Viper, device string) (baudscan.Config, baudscan.Candidates, error) {
	if device == "" {
		device = v.GetString(keyDevice)
	}

	opts := []baudscan.Option{
		baudscan.WithDevice(device),
		baudscan.WithTimeout(v.GetDuration(keyTimeout)),
		baudscan.WithThreshold(v.GetInt(keyThreshold)),
		baudscan.WithQuiet(v.GetBool(keyQuiet)),
		baudscan.WithCharset(baudscan.Charset{
			IncludeWhitespace: v.GetBool(keyWhitespace),
			RequireText:       v.GetBool(keyRequireText),
			ResetOnNoise:      v.GetBool(keyResetOnNoise),
		}),
	}

	dtr, err := parseLineState(keyDTR, v.GetString(keyDTR))
	if err != nil {
		return baudscan.Config{}, nil, err
	}
	if dtr != nil {
		opts = append(opts, baudscan.WithDTR(*dtr))
	}
	rts, err := parseLineState(keyRTS, v.GetString(keyRTS))
	if err != nil {
		return baudscan.Config{}, nil, err
	}
	if rts != nil {
		opts = append(opts, baudscan.WithRTS(*rts))
	}

	config, err := baudscan.NewConfig(opts...)
	if err != nil {
		return baudscan.Config{}, nil, err
	}

	candidates, err := loadCandidates(v)
	if err != nil {
		return baudscan.Config{}, nil, err
	}
	return config, candidates, nil
}

// loadCandidates prefers an explicit rate list over the named set
func loadCandidates(v *viper.Viper) (baudscan.Candidates, error) {
	if rates := v.GetStringSlice(keyRates); len(rates) > 0 {
		return baudscan.ParseCandidates(rates)
	}
	return baudscan.RateSet(v.GetString(keyRateSet))
}

// parseLineState reads a modem line setting. Empty means leave it alone.
func parseLineState(key, value string) (*bool, error) {
	var state bool
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "on", "high", "true", "1":
		state = true
	case "off", "low", "false", "0":
		state = false
	default:
		return nil, fmt.Errorf("%w: %s must be on or off, got %q", baudscan.ErrInvalidConfig, key, value)
	}
	return &state, nil
}

func profileStore(v *viper.Viper) (*profile.Store, error) {
	path := v.GetString(keyProfileStore)
	if path == "" {
		var err error
		if path, err = profile.DefaultStorePath(); err != nil {
			return nil, fmt.Errorf("failed to locate profile store: %w", err)
		}
	}
	return profile.NewStore(path), nil
}
