// Package command runs dispatcher effects off the Bubble Tea event loop.
package command

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/atomicstack/systemctl-tui/internal/dispatcher"
	"github.com/atomicstack/systemctl-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request is one effect queued by the dispatcher.
type Request struct {
	Label  string
	Effect dispatcher.Effect
}

// Bus turns effects into commands while emitting trace logs.
type Bus struct {
	seq atomic.Uint64
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps the effect in a command. The action it returns is delivered
// back to the model as a message.
func (b *Bus) Execute(req Request) tea.Cmd {
	if req.Effect == nil {
		return nil
	}
	id := strconv.FormatUint(b.seq.Add(1), 10)
	events.Command.Queue(id, req.Label)
	return func() tea.Msg {
		a := req.Effect()
		if a == nil {
			events.Command.NoOp(id, req.Label)
			return nil
		}
		events.Command.Result(id, req.Label, fmt.Sprintf("%T", a))
		return a
	}
}

// ExecuteAll batches the effects of one dispatch.
func (b *Bus) ExecuteAll(label string, effects []dispatcher.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		cmds = append(cmds, b.Execute(Request{Label: label, Effect: e}))
	}
	return tea.Batch(cmds...)
}
