package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/prolific-dev/prolific/activitytracker"
	"github.com/prolific-dev/prolific/constants/lipgloss"
)

// resetStateCmd represents the reset-state command
var resetStateCmd = &cobra.Command{
	Use:   "reset-state",
	Short: "Reset the agent's local state",
	Long: `The 'reset-state' command removes all per-project snapshots, the first-run
marker and the local anonymization salt. The next cycle starts from a clean
baseline and projects receive fresh pseudonymous ids. The configuration file
is kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		handleResetStateCommand(force)
	},
}

func init() {
	resetStateCmd.Flags().BoolP("force", "f", false, "Force state reset without confirmation")

	rootCmd.AddCommand(resetStateCmd)
}

func handleResetStateCommand(force bool) {
	stateDir, err := activitytracker.DefaultStateDir()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	if !force {
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Are you sure you want to reset all agent state under %s? (y/N): ", stateDir)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println(lipgloss.Yellow.Render("State reset cancelled."))
			return
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Resetting agent state...")

	// Remove only what the agent owns; config.toml stays.
	targets := []string{
		filepath.Join(stateDir, "state"),
		filepath.Join(stateDir, "known_projects.json"),
		filepath.Join(stateDir, "salt.txt"),
	}
	for _, target := range targets {
		if err := os.RemoveAll(target); err != nil {
			spinnerInstance.Stop()
			fmt.Print("\r")
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting state: %v", err)))
			return
		}
	}

	spinnerInstance.Stop()
	fmt.Print("\r")
	fmt.Println(lipgloss.Green.Render("✓ Agent state has been successfully reset!"))
}
