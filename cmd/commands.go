package cmd

import (
	"github.com/mj1618/tabshuttle/internal/dispatch"
	"github.com/mj1618/tabshuttle/internal/output"
	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List keyboard command names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(dispatch.Commands())
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
