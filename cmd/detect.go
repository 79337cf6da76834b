/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var errNotDetected = errors.New("could not detect baud rate; try a lower --threshold or a longer --timeout")

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [port]",
	Short: "Detect the baud rate of a serial device",
	Long: `Detect the baud rate of a serial device by sampling it at each candidate
rate in turn.

At every rate the port is opened in raw 8N1 mode and read for up to --timeout.
The first rate that yields --threshold printable characters wins; the rest of
the list is not tried. Incoming data is echoed to stderr unless --quiet.

Exit status is 0 when a rate was found, 2 when every candidate was rejected
and 1 on errors.

Example usage:
  baudscan detect
  baudscan detect /dev/ttyUSB1 --timeout 2s --threshold 40
  baudscan detect /dev/ttyS0 --rates 115200,57600,9600 --format json
  baudscan detect /dev/ttyACM0 --name board --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var device string
		if len(args) > 0 {
			device = args[0]
		}

		config, candidates, err := loadDetectionConfig(viper.GetViper(), device)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		summary, _ := cmd.Flags().GetBool("summary")
		metricsFile, _ := cmd.Flags().GetString("metrics-file")
		name, _ := cmd.Flags().GetString("name")
		yes, _ := cmd.Flags().GetBool("yes")
		noLaunch, _ := cmd.Flags().GetBool("no-launch")

		// Reject bad names and formats before spending a full scan
		if err := writeReport(io.Discard, format, detectReport{}); err != nil {
			return err
		}
		if name != "" {
			if err := validateProfileName(name); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		recorder := &trialRecorder{}
		observers := []baudscan.Observer{recorder}
		if !config.Quiet {
			observers = append(observers, &progressObserver{w: os.Stderr})
		}
		var metrics *telemetry.Metrics
		if metricsFile != "" {
			metrics = telemetry.NewMetrics()
			observers = append(observers, metrics)
		}

		detector := &baudscan.Detector{
			Observer: baudscan.Observers(observers...),
			Sink:     echoSink{w: os.Stderr, charset: config.Charset},
			Logger:   logger,
		}

		result, err := detector.Run(ctx, config, candidates)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return errors.New("interrupted")
			}
			return err
		}

		if metrics != nil {
			metrics.SetResult(result)
			if err := metrics.WriteTextfile(metricsFile); err != nil {
				logger.Warn("failed to write metrics", zap.String("path", metricsFile), zap.Error(err))
			}
		}

		report := newDetectReport(config.Device, result, recorder.outcomes)
		if err := writeReport(os.Stdout, format, report); err != nil {
			return err
		}
		if summary {
			fmt.Fprintln(os.Stderr, renderTrialTable(report))
		}

		rate, found := result.Rate()
		if !found {
			return &exitError{code: 2, err: errNotDetected}
		}

		if name == "" {
			return nil
		}
		return saveAndLaunch(ctx, name, config.Device, rate, result.RunID(), yes, noLaunch)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().DurationP("timeout", "t", baudscan.DefaultTimeout, "How long to sample each rate")
	detectCmd.Flags().BoolP("quiet", "q", false, "Do not echo incoming data or progress")
	detectCmd.Flags().StringP("name", "n", "", "Save the detected settings as minicom profile <name> and offer to run minicom")
	detectCmd.Flags().BoolP("yes", "y", false, "Run minicom without asking")
	detectCmd.Flags().Bool("no-launch", false, "Save the profile but do not offer to run minicom")
	detectCmd.Flags().StringP("format", "o", formatText, "Result format: text, json, yaml")
	detectCmd.Flags().Bool("summary", false, "Print a table of every trial to stderr")
	detectCmd.Flags().String("metrics-file", "", "Write Prometheus metrics for the run to this file")

	bindFlag(keyTimeout, detectCmd.Flags(), "timeout")
	bindFlag(keyQuiet, detectCmd.Flags(), "quiet")
}

// trialRecorder keeps every outcome for the report
type trialRecorder struct {
	outcomes []baudscan.Outcome
}

func (r *trialRecorder) TrialStarted(baudscan.BaudRate) {}

func (r *trialRecorder) TrialFinished(o baudscan.Outcome) {
	r.outcomes = append(r.outcomes, o)
}

// progressObserver frames the echoed data of each trial on stderr
type progressObserver struct {
	w io.Writer
}

func (p *progressObserver) TrialStarted(rate baudscan.BaudRate) {
	fmt.Fprintf(p.w, "Trying %d baud... ", rate)
}

func (p *progressObserver) TrialFinished(o baudscan.Outcome) {
	switch {
	case !o.Opened:
		fmt.Fprintf(p.w, "failed: %v\n", o.Err)
	case o.Accepted:
		fmt.Fprintf(p.w, "\n  %d/%d printable, accepted\n", o.Printable, o.BytesRead)
	default:
		fmt.Fprintf(p.w, "\n  %d/%d printable\n", o.Printable, o.BytesRead)
	}
}
