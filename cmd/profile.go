/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect saved minicom profiles",
	Long: `Inspect the profiles written by "detect --name" and "tune --name".

Every saved profile is a minicom file (minirc.<name>) plus an entry in
profiles.toml recording the device, rate and the run that found it.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profileStore(viper.GetViper())
		if err != nil {
			return err
		}
		records, err := store.Load()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No saved profiles")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%-16s %-16s %7d  %s\n", r.Name, r.Device, r.Rate, r.SavedAt.Format(time.DateTime))
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved profile and its minicom settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profileStore(viper.GetViper())
		if err != nil {
			return err
		}
		r, err := store.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Profile: %s\n\n", r.Name)
		fmt.Printf("  Device:  %s\n", r.Device)
		fmt.Printf("  Rate:    %d\n", r.Rate)
		fmt.Printf("  Saved:   %s\n", r.SavedAt.Format(time.RFC3339))
		if r.RunID != "" {
			fmt.Printf("  Run ID:  %s\n", r.RunID)
		}
		if r.MinicomPath != "" {
			fmt.Printf("  Minicom: %s\n", r.MinicomPath)
		}
		fmt.Println()
		fmt.Print(profile.Minicom{Device: r.Device, Rate: r.Rate}.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
}

func validateProfileName(name string) error {
	return profile.ValidateName(name)
}

// saveProfile writes the minicom file and records it in the store. A store
// failure is logged, not returned.
func saveProfile(name, device string, rate baudscan.BaudRate, runID string) (string, error) {
	path, err := profile.WriteMinicom(viper.GetString(keyMinicomDir), name, profile.Minicom{Device: device, Rate: rate})
	if err != nil {
		return "", err
	}

	store, err := profileStore(viper.GetViper())
	if err != nil {
		return path, err
	}
	rec := profile.Record{
		Name:        name,
		Device:      device,
		Rate:        rate,
		RunID:       runID,
		SavedAt:     time.Now(),
		MinicomPath: path,
	}
	if err := store.Save(rec); err != nil {
		logger.Warn("failed to record profile", zap.String("store", store.Path), zap.Error(err))
	}
	return path, nil
}

// saveAndLaunch persists the profile and, unless told otherwise, offers to
// start minicom with it
func saveAndLaunch(ctx context.Context, name, device string, rate baudscan.BaudRate, runID string, yes, noLaunch bool) error {
	path, err := saveProfile(name, device, rate, runID)
	if err != nil {
		return err
	}
	fmt.Printf("Configuration saved to %s\n", path)

	if noLaunch {
		return nil
	}
	if !yes && !profile.Confirm(os.Stdin, os.Stdout) {
		return nil
	}
	return profile.Run(ctx, name)
}
