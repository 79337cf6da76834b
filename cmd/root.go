/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/allbin/go-baudscan/internal/logging"
	"github.com/allbin/go-baudscan/internal/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	debug   bool

	logger = zap.NewNop()
)

// exitError carries a process exit code other than 1
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "baudscan",
	Short: "Find the baud rate of a serial device",
	Long: `baudscan listens to a serial device at one candidate baud rate after
another and reports the first rate at which the incoming data looks like
readable text.

Example usage:
  baudscan detect /dev/ttyUSB0
  baudscan detect /dev/ttyUSB0 --rate-set extended --threshold 40
  baudscan detect /dev/ttyACM0 --name board     # save minicom profile
  baudscan tune /dev/ttyUSB0                    # pick the rate by hand`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		l, err := logging.New(verbose, debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info("using config file", zap.String("path", used))
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	os.Exit(1)
}

func init() {
	setDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/baudscan/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	flags.BoolVar(&debug, "debug", false, "Log every trial in detail")

	flags.IntP("threshold", "c", defaultThreshold, "Printable characters required to accept a rate")
	flags.String("rate-set", defaultRateSet, "Candidate rates: "+strings.Join(rateSetNames(), ", "))
	flags.StringSlice("rates", nil, "Explicit candidate rates in order, e.g. 115200,9600 (overrides --rate-set)")
	flags.Bool("whitespace", true, "Count CR, LF and TAB as printable")
	flags.Bool("require-text", false, "Also require whitespace, punctuation and a vowel before accepting")
	flags.Bool("reset-on-noise", false, "Restart the count after any non-printable byte")
	flags.String("dtr", "", "Drive DTR on open: on or off (default: leave as the driver sets it)")
	flags.String("rts", "", "Drive RTS on open: on or off (default: leave as the driver sets it)")
	flags.String("minicom-dir", profile.DefaultMinicomDir, "Directory minicom reads minirc.<name> from")
	flags.String("profile-store", "", "Profile record file (default $XDG_CONFIG_HOME/baudscan/profiles.toml)")

	bindFlag(keyThreshold, flags, "threshold")
	bindFlag(keyRateSet, flags, "rate-set")
	bindFlag(keyRates, flags, "rates")
	bindFlag(keyWhitespace, flags, "whitespace")
	bindFlag(keyRequireText, flags, "require-text")
	bindFlag(keyResetOnNoise, flags, "reset-on-noise")
	bindFlag(keyDTR, flags, "dtr")
	bindFlag(keyRTS, flags, "rts")
	bindFlag(keyMinicomDir, flags, "minicom-dir")
	bindFlag(keyProfileStore, flags, "profile-store")
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "baudscan"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BAUDSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
