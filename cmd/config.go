package cmd

import (
	"github.com/mj1618/tabshuttle/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long:  "Print the settings after defaults, the settings file and TABSHUTTLE_* environment variables are applied.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(settings)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
