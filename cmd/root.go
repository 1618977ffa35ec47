package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prolific-dev/prolific/activitytracker"
	"github.com/prolific-dev/prolific/activitytracker/contracts"
	"github.com/prolific-dev/prolific/config"
	"github.com/prolific-dev/prolific/constants/lipgloss"
	"github.com/prolific-dev/prolific/utils"
)

// RootDependencies holds the wired-up collaborators every subcommand needs.
type RootDependencies struct {
	Config   *config.Config
	StateDir string
	Tracker  contracts.IActivityTracker
	Git      *utils.GitOperations
}

var rootCmd = &cobra.Command{
	Use:   "prolific",
	Short: "Privacy-preserving coding activity tracker",
	Long: `Prolific tracks coding activity in watched project folders using file
metadata only (sizes, modification times, extensions). Each run takes a fresh
metadata snapshot, diffs it against the previous one, estimates per-language
lines changed, and publishes an anonymized report. File contents are never
read.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads configuration and constructs the shared dependency
// bundle for a subcommand.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	stateDir, err := activitytracker.DefaultStateDir()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd.Root(), stateDir)

	return &RootDependencies{
		Config:   cfg,
		StateDir: stateDir,
		Tracker:  activitytracker.NewActivityTracker(cfg, stateDir),
		Git:      utils.NewGitOperations(cfg.RepoPath),
	}
}
