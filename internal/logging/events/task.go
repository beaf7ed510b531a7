package events

import "github.com/atomicstack/systemctl-tui/internal/logging"

type TaskTracer struct{}

var Task = TaskTracer{}

func (TaskTracer) Start(taskID, label, unit string) {
	logging.Trace("task.start", map[string]interface{}{"task": taskID, "label": label, "unit": unit})
}

func (TaskTracer) Cancel(taskID string) {
	logging.Trace("task.cancel", map[string]interface{}{"task": taskID})
}

func (TaskTracer) Finish(taskID, outcome, message string) {
	logging.Trace("task.finish", map[string]interface{}{"task": taskID, "outcome": outcome, "message": message})
}

func (TaskTracer) Discard(taskID, current string) {
	logging.Trace("task.discard", map[string]interface{}{"task": taskID, "current": current})
}

func (TaskTracer) Refresh(taskID string, n int) {
	logging.Trace("task.refresh", map[string]interface{}{"task": taskID, "n": n})
}
