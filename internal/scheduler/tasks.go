// Package scheduler runs the periodic reminder scan as an asynq worker, so
// deployments without an external cron caller still deliver reminders.
package scheduler

import (
	"github.com/hibiken/asynq"
)

// TaskReminderScan triggers one dispatcher pass over pending reminders.
const TaskReminderScan = "reminders.scan"

// NewReminderScanTask creates the scan task. The scan is stateless, so the
// task carries no payload.
func NewReminderScanTask() *asynq.Task {
	return asynq.NewTask(TaskReminderScan, nil)
}
