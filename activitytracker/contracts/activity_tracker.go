package contracts

import (
	"github.com/prolific-dev/prolific/activitytracker/models"
)

type IActivityTracker interface {
	RunOnce() (*models.RunResult, error)
	StateDir() string
}
