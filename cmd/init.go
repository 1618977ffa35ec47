package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prolific-dev/prolific/activitytracker"
	"github.com/prolific-dev/prolific/config"
	"github.com/prolific-dev/prolific/constants/lipgloss"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default agent configuration",
	Long: `The 'init' subcommand writes a default TOML configuration to the agent
state directory. Pass one or more --scan-path folders to watch and the
--repo-path of the git repository that reports are committed to.`,
	Run: func(cmd *cobra.Command, args []string) {
		scanPaths, _ := cmd.Flags().GetStringArray("scan-path")
		repoPath, _ := cmd.Flags().GetString("repo-path")
		force, _ := cmd.Flags().GetBool("force")

		handleInitCommand(scanPaths, repoPath, force)
	},
}

func init() {
	initCmd.Flags().StringArray("scan-path", nil, "Project folder to watch (repeatable)")
	initCmd.Flags().String("repo-path", "", "Git repository that activity reports are committed to")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	_ = initCmd.MarkFlagRequired("scan-path")
	_ = initCmd.MarkFlagRequired("repo-path")

	rootCmd.AddCommand(initCmd)
}

func handleInitCommand(scanPaths []string, repoPath string, force bool) {
	stateDir, err := activitytracker.DefaultStateDir()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}
	configPath := config.ConfigPath(stateDir)

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Config already exists: %s (use --force to overwrite)", configPath)))
		return
	}

	for _, p := range scanPaths {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("--scan-path must be an existing directory: %s", p)))
			return
		}
	}
	if info, err := os.Stat(repoPath); err != nil || !info.IsDir() {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("--repo-path must be an existing directory: %s", repoPath)))
		return
	}

	if err := config.WriteDefaultConfig(configPath, scanPaths, repoPath); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("Wrote config: %s", configPath)))
}
