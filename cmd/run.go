package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/prolific-dev/prolific/config"
	"github.com/prolific-dev/prolific/constants/lipgloss"
	"github.com/prolific-dev/prolific/report"
	"github.com/prolific-dev/prolific/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one scan/diff/report cycle",
	Long: `The 'run' subcommand executes one full cycle: scan every watched project
folder (metadata only), diff against the previous snapshot, estimate lines
changed per language, write report artifacts into the activity repo and commit
them. Scheduling is external; each invocation is one cycle.`,
	Run: func(cmd *cobra.Command, args []string) {
		preview, _ := cmd.Flags().GetBool("preview")

		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleRunCommand(rootDependencies, preview)
	},
}

func init() {
	runCmd.Flags().Bool("preview", false, "Render the markdown report to the terminal after the cycle")

	rootCmd.AddCommand(runCmd)
}

func handleRunCommand(deps *RootDependencies, preview bool) {
	if err := deps.Config.Validate(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Invalid configuration: %v", err)))
		return
	}

	for _, p := range deps.Config.ScanPaths {
		if config.IsRiskyWatchPath(p) {
			fmt.Println(lipgloss.Yellow.Render(
				"Warning: you are watching a drive/root folder. This can cause high CPU/memory usage. Prefer a project folder instead."))
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerScan, _ := spinner.Start("Scanning watched folders...")
	result, err := deps.Tracker.RunOnce()
	spinnerScan.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Cycle failed: %v", err)))
		return
	}

	for _, warning := range result.Warnings {
		fmt.Println(lipgloss.Yellow.Render("Warning: " + warning))
	}

	if !result.HasActivity() {
		fmt.Println(lipgloss.Info.Render(result.Message))
		if len(result.FirstScanProjects) > 0 {
			fmt.Printf("Baselined %d project(s).\n", len(result.FirstScanProjects))
		}
		if result.SkippedPaths > 0 {
			fmt.Printf("Skipped filesystem entries: %d\n", result.SkippedPaths)
		}
		return
	}

	summary := result.Summary
	payload := report.BuildEventPayload(result.EventID, *summary, result.ProjectIDs)

	ts := time.Now().UTC()
	if _, _, err := report.EnsureActivityRepoReadme(deps.Config.RepoPath); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}
	jsonPath, mdPath, err := report.WriteReportFiles(deps.Config.RepoPath, ts, payload)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}
	if _, err := report.AppendEvent(deps.Config.RepoPath, payload); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	// Publish. Git errors are non-fatal: artifacts and local state are kept
	// and the next run retries.
	gitResult, err := deps.Git.CommitAndPushReports(
		deps.Config.Branch, deps.Config.Remote, deps.Config.Push, result.EventID)
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Git publish skipped: %v", err)))
	} else {
		fmt.Println(lipgloss.Green.Render(gitResult.Message))
	}

	printRunSummary(result.EventID, payload, result.SkippedPaths, jsonPath, mdPath)

	if preview {
		fmt.Println()
		utils.RenderAndPrintMarkdown(report.BuildMarkdownReport(payload), deps.Config.Theme)
	}
}

func printRunSummary(eventID string, payload report.EventPayload, skipped int, jsonPath, mdPath string) {
	rows := pterm.TableData{
		{"Event", eventID},
		{"Projects with activity", fmt.Sprintf("%d", len(payload.WatchFolders))},
		{"Net LOC estimate", fmt.Sprintf("%d", payload.NetLocEstimate)},
		{"Churn LOC estimate", fmt.Sprintf("%d", payload.ChurnLocEstimate)},
		{"Total delta bytes", fmt.Sprintf("%d", payload.TotalDeltaBytes)},
		{"Skipped entries", fmt.Sprintf("%d", skipped)},
		{"Report (json)", jsonPath},
		{"Report (md)", mdPath},
	}
	_ = pterm.DefaultTable.WithData(rows).Render()
}
