package cmd

import (
	"fmt"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/output"
	"github.com/mj1618/tabshuttle/internal/scenario"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replay a scenario against a simulated browser",
	Long: `Build the windows a scenario describes, start tabshuttle on them, replay the
scenario's steps and print the final state: windows, tabs, recency order,
menu entries and badge.

Steps:
  focus         window: <id>, or -1 to leave the browser
  close         window: <id>
  activate      tab: <id>
  highlight     tabs: [<id>, ...]
  show-menu     tab: <id>
  hide-menu
  click-menu    item: <entry id>, or window: <id> with kind: move|reopen
  command       command: <name>
  click-action  shift: true, button: 1
  wait

Any step may set no_wait: true to overlap with the next one.

Examples:
  tabshuttle simulate three_windows.yaml
  tabshuttle simulate three_windows.yaml --format json --pretty
  tabshuttle simulate three_windows.yaml --initial
  tabshuttle simulate three_windows.yaml --diff`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("initial", false, "Print the state after startup without replaying steps")
	simulateCmd.Flags().Bool("diff", false, "Print only the tab changes the steps caused")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	initial, _ := cmd.Flags().GetBool("initial")
	diff, _ := cmd.Flags().GetBool("diff")

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	r, err := scenario.NewRunner(ctx, sc, settings, logger)
	if err != nil {
		return fmt.Errorf("failed to start simulation: %w", err)
	}
	defer r.Close()

	if err := r.Settle(ctx); err != nil {
		return err
	}
	if initial {
		return output.Print(r.State())
	}
	before := r.State()
	if err := r.Run(ctx, sc); err != nil {
		return err
	}
	after := r.State()
	if diff {
		changes := model.DiffTabs(before.Windows, after.Windows)
		if changes == nil {
			changes = []model.TabChange{}
		}
		return output.Print(changes)
	}
	return output.Print(after)
}
