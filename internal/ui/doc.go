// Package ui contains the Bubble Tea program that fronts the dispatcher.
// Model.Update is a thin adapter; all application state lives in
// internal/dispatcher and changes only by dispatching actions.
//
// Message flow:
//   - Key presses are resolved by mode.Resolve against the current mode and
//     translated into actions. Search-box edits are applied to the local
//     SearchBox first and committed as a SetSearch action.
//   - Actions sent by background work (the task supervisor, effects run by
//     the command bus) arrive as messages and are dispatched unchanged.
//   - A dispatch Result becomes commands: effects run through
//     internal/ui/command, Exec hands the terminal to the editor under the
//     render gate, Suspend and Quit stop the watcher and return the matching
//     Bubble Tea command.
//
// Rendering:
//   - View paints through render.Gate so only one draw runs at a time and
//     nothing is painted while the editor owns the terminal. Render requests
//     are coalesced by backend.Debouncer when a debounce window is set.
//
// Backend interactions:
//   - A backend.Watcher polls the service manager. Its events are pumped by
//     waitForBackendEvent and merged into the registry as SetUnits actions.
//     The watcher is stopped on suspend and replaced on resume.
package ui
