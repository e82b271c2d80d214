package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mj1618/tabshuttle/internal/badge"
	"github.com/spf13/cobra"
)

var iconCmd = &cobra.Command{
	Use:   "icon [text]",
	Short: "Render a toolbar icon",
	Long:  "Render the toolbar icon with a badge count as a PNG, for packaging or inspection.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIcon,
}

func init() {
	rootCmd.AddCommand(iconCmd)
	iconCmd.Flags().Bool("incognito", false, "Use the private window color")
	iconCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
}

func runIcon(cmd *cobra.Command, args []string) error {
	incognito, _ := cmd.Flags().GetBool("incognito")
	output, _ := cmd.Flags().GetString("output")
	text := ""
	if len(args) == 1 {
		text = args[0]
	}

	data, err := badge.RenderIcon(text, incognito)
	if err != nil {
		return err
	}

	if output != "" {
		return os.WriteFile(output, data, 0644)
	}

	// Default: write to stdout as base64
	encoder := base64.NewEncoder(base64.StdEncoding, cmd.OutOrStdout())
	if _, err := encoder.Write(data); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
