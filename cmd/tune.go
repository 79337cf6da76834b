/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// tuneCmd represents the tune command
var tuneCmd = &cobra.Command{
	Use:   "tune [port]",
	Short: "Pick the baud rate by hand while watching live data",
	Long: `Open the port and show incoming data live while you step through the
candidate rates. Useful for devices that only talk in short bursts or send
data that automatic detection rejects.

Keys:
  ↑/k/u   next rate
  ↓/j/d   previous rate
  enter   use the current rate
  c       clear
  h       toggle hex
  q       quit without choosing

Example usage:
  baudscan tune /dev/ttyUSB0
  baudscan tune /dev/ttyUSB0 --rate-set extended --start 57600
  baudscan tune /dev/ttyUSB0 --name board`,
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

		start, _ := cmd.Flags().GetInt("start")
		name, _ := cmd.Flags().GetString("name")
		yes, _ := cmd.Flags().GetBool("yes")
		noLaunch, _ := cmd.Flags().GetBool("no-launch")
		if name != "" {
			if err := validateProfileName(name); err != nil {
				return err
			}
		}

		rate, ok, err := runTuneTUI(cmd.Context(), config, candidates, baudscan.BaudRate(start))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No baudrate selected")
			return nil
		}
		fmt.Printf("Selected baudrate: %d\n", rate)

		if name == "" {
			return nil
		}
		return saveAndLaunch(cmd.Context(), name, config.Device, rate, uuid.NewString(), yes, noLaunch)
	},
}

func init() {
	rootCmd.AddCommand(tuneCmd)

	tuneCmd.Flags().Int("start", 0, "Rate to start at (default: first candidate)")
	tuneCmd.Flags().StringP("name", "n", "", "Save the chosen settings as minicom profile <name> and offer to run minicom")
	tuneCmd.Flags().BoolP("yes", "y", false, "Run minicom without asking")
	tuneCmd.Flags().Bool("no-launch", false, "Save the profile but do not offer to run minicom")
}

func runTuneTUI(ctx context.Context, config baudscan.Config, candidates baudscan.Candidates, start baudscan.BaudRate) (baudscan.BaudRate, bool, error) {
	logger.Info("starting tune", zap.String("device", config.Device), zap.Int("rates", len(candidates)))

	m := models.NewTune(config.Device, candidates, start, config.Threshold, config.Charset)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	reader := &models.Reader{Device: config.Device, Open: config.Opener()}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reader.Run(ctx, m.Requests(), p.Send)
	}()

	_, err := p.Run()

	// The reader must release the port before minicom can take it
	cancel()
	wg.Wait()

	if err != nil {
		return 0, false, fmt.Errorf("tune: %w", err)
	}
	rate, ok := m.Accepted()
	return rate, ok, nil
}
