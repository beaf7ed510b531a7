package events

import "github.com/atomicstack/systemctl-tui/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Suspend() {
	logging.Trace("app.suspend", nil)
}

func (AppTracer) Resume() {
	logging.Trace("app.resume", nil)
}

func (AppTracer) Quit(pending int) {
	logging.Trace("app.quit", map[string]interface{}{"pending": pending})
}
