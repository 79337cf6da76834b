/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ratesCmd represents the rates command
var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List the candidate baud rates in trial order",
	Long: `List the baud rates detect would try, in the order it would try them.

The list comes from --rates when given, otherwise from --rate-set:
  standard  conventional rates, lowest first
  common    conventional rates, most frequently used first (default)
  extended  adds rates derived from MCU clock dividers, highest first`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := loadCandidates(viper.GetViper())
		if err != nil {
			return err
		}

		tableFormat, _ := cmd.Flags().GetBool("table")
		if tableFormat {
			fmt.Println(renderRateTable(candidates))
			return nil
		}
		for _, r := range candidates {
			fmt.Println(r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().BoolP("table", "t", false, "Display output in a table with bit timing")
}
