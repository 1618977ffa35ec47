package utils

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitOperations publishes report artifacts to the activity repo. Push
// failures are non-fatal by design: the local commit is kept and the next run
// retries.
type GitOperations struct {
	repoPath string
}

// GitResult describes the outcome of one publish attempt.
type GitResult struct {
	Committed bool
	Pushed    bool
	CommitSHA string
	Message   string
}

// NewGitOperations creates a new GitOperations instance for the activity repo.
func NewGitOperations(repoPath string) *GitOperations {
	return &GitOperations{repoPath: repoPath}
}

func (g *GitOperations) run(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", g.repoPath}, args...)...)
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// CheckGitRepo checks whether the activity repo path is a git work tree.
func (g *GitOperations) CheckGitRepo() error {
	out, err := g.run("rev-parse", "--is-inside-work-tree")
	if err != nil || !strings.Contains(out, "true") {
		return fmt.Errorf("not a git repository: %s", g.repoPath)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name.
func (g *GitOperations) CurrentBranch() (string, error) {
	out, err := g.run("branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %s", out)
	}
	return out, nil
}

// CheckoutBranch switches the activity repo to the given branch.
func (g *GitOperations) CheckoutBranch(branch string) error {
	if out, err := g.run("checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout branch %q: %s", branch, out)
	}
	return nil
}

// HasChanges checks whether anything is pending in the work tree.
func (g *GitOperations) HasChanges() (bool, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to get git status: %s", out)
	}
	return out != "", nil
}

// CommitAndPushReports stages only the artifacts the agent owns (README,
// reports, viz, docs), commits them under the event id, and optionally pushes.
func (g *GitOperations) CommitAndPushReports(branch, remote string, push bool, eventID string) (GitResult, error) {
	if err := g.CheckGitRepo(); err != nil {
		return GitResult{}, err
	}

	current, err := g.CurrentBranch()
	if err != nil {
		return GitResult{}, err
	}
	if current != "" && current != branch {
		if err := g.CheckoutBranch(branch); err != nil {
			return GitResult{}, err
		}
	}

	if out, err := g.run("add", "--", "README.md", "reports", "viz", "docs"); err != nil {
		return GitResult{}, fmt.Errorf("git add failed: %s", out)
	}

	changed, err := g.HasChanges()
	if err != nil {
		return GitResult{}, err
	}
	if !changed {
		return GitResult{Message: "No changes to commit."}, nil
	}

	msg := fmt.Sprintf("Prolific activity: %s", eventID)
	if out, err := g.run("commit", "-m", msg); err != nil {
		return GitResult{}, fmt.Errorf("git commit failed: %s", out)
	}

	sha, _ := g.run("rev-parse", "HEAD")

	if !push {
		return GitResult{Committed: true, CommitSHA: sha, Message: "Committed (push disabled)."}, nil
	}

	if out, err := g.run("push", remote, branch); err != nil {
		return GitResult{
			Committed: true,
			CommitSHA: sha,
			Message:   fmt.Sprintf("Committed, but push failed (will retry next run): %s", out),
		}, nil
	}

	return GitResult{Committed: true, Pushed: true, CommitSHA: sha, Message: "Committed and pushed."}, nil
}
