package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/systemctl-tui/internal/format/table"
	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/logging/events"
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/state"
	"github.com/atomicstack/systemctl-tui/internal/systemd"
	"github.com/atomicstack/systemctl-tui/internal/task"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	listWidthFraction = 0.35
	minListWidth      = 24
	maxListWidth      = 48
	statusRows        = 1
	searchRows        = 3
	detailRows        = 7
	modalMaxWidth     = 72
	minAppLogRows     = 3

	favoriteMarker = "★ "
	appLogTitle    = "Application log"
)

// layout holds the panel geometry for one terminal size. Row counts exclude
// panel borders.
type layout struct {
	width, height int
	listWidth     int
	rightWidth    int
	listRows      int
	logRows       int
	appLogRows    int
}

func computeLayout(width, height int) layout {
	l := layout{width: width, height: height}
	l.listWidth = int(float64(width) * listWidthFraction)
	l.listWidth = min(max(l.listWidth, minListWidth), maxListWidth)
	if l.listWidth > width {
		l.listWidth = width
	}
	l.rightWidth = max(width-l.listWidth, 0)
	body := height - statusRows
	l.listRows = max(body-searchRows-2, 1)
	l.logRows = max(body-(detailRows+2)-2, 1)
	return l
}

// withAppLog takes a third of the journal rows for the application log pane,
// leaving the layout unchanged when the terminal is too short for both.
func (l layout) withAppLog() layout {
	rows := max(l.logRows/3, minAppLogRows)
	if l.logRows-rows-2 < minAppLogRows {
		return l
	}
	l.appLogRows = rows
	l.logRows -= rows + 2
	return l
}

func (m *Model) layout() layout {
	w, h := m.disp.Size()
	lay := computeLayout(w, h)
	if m.disp.ShowLogger() {
		lay = lay.withAppLog()
	}
	return lay
}

// View implements tea.Model.
func (m *Model) View() string {
	return m.gate.Frame(m.draw)
}

func (m *Model) draw() string {
	w, h := m.disp.Size()
	if w <= 0 || h <= 0 || m.disp.Quitting() {
		return ""
	}
	events.UI.Render(int(m.gate.Draws()) + 1)
	lay := m.layout()

	left := lipgloss.JoinVertical(lipgloss.Left, m.viewSearch(lay), m.viewUnits(lay))
	right := lipgloss.JoinVertical(lipgloss.Left, m.viewDetails(lay), m.viewLogs(lay))
	if lay.appLogRows > 0 {
		right = lipgloss.JoinVertical(lipgloss.Left, right, m.viewAppLog(lay))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	if modal := m.viewModal(lay); modal != "" {
		body = lipgloss.Place(w, h-statusRows, lipgloss.Center, lipgloss.Center, modal)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus(lay))
}

func panel(active bool, width, rows int, title string, lines []string) string {
	style := *styles.Panel
	if active {
		style = *styles.ActivePanel
	}
	inner := max(width-2, 1)
	for len(lines) < rows {
		lines = append(lines, "")
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	if title != "" && len(lines) > 0 && lines[0] == "" {
		lines[0] = styles.PanelTitle.Render(truncateText(title, inner))
	}
	return style.Width(inner).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewSearch(lay layout) string {
	active := m.disp.Mode() == mode.Search
	inner := max(lay.listWidth-2, 1)
	prompt := styles.SearchPrompt.Render("/ ")
	text := m.search.Text()

	var line string
	switch {
	case active:
		runes := []rune(text)
		pos := m.search.Cursor()
		under := " "
		rest := ""
		if pos < len(runes) {
			under = string(runes[pos])
			rest = string(runes[pos+1:])
		}
		m.searchCursor.SetChar(under)
		line = styles.SearchText.Render(string(runes[:pos])) + m.searchCursor.View() + styles.SearchText.Render(rest)
	case text == "":
		line = styles.SearchPlaceholder.Render("Search (ctrl+f)")
	default:
		line = styles.SearchText.Render(text)
	}
	line = truncate.String(prompt+line, uint(inner))
	return panel(active, lay.listWidth, 1, "", []string{line})
}

func (m *Model) viewUnits(lay layout) string {
	reg := m.disp.Units()
	units := reg.Filtered()
	inner := max(lay.listWidth-2, 1)
	title := fmt.Sprintf("Services (%d/%d)", len(units), reg.Len())
	rows := lay.listRows
	if len(units) == 0 {
		msg := "(no units)"
		if search := reg.Search(); search != "" {
			msg = fmt.Sprintf("No matches for %q", search)
		}
		return panel(m.disp.Mode() == mode.ServiceList, lay.listWidth, rows, "", []string{styles.Item.Render(truncateText(msg, inner))})
	}

	cursor, _ := reg.SelectedIndex()
	visible := max(rows-1, 1)
	m.listOffset = state.Window(cursor, len(units), visible, m.listOffset)
	end := min(m.listOffset+visible, len(units))

	lines := make([]string, 0, rows)
	lines = append(lines, styles.PanelTitle.Render(truncateText(title, inner)))
	for i := m.listOffset; i < end; i++ {
		lines = append(lines, m.unitLine(units[i], i == cursor, inner))
	}
	return panel(m.disp.Mode() == mode.ServiceList, lay.listWidth, rows, "", lines)
}

func (m *Model) unitLine(u unit.Unit, selected bool, width int) string {
	marker := "  "
	if m.disp.IsFavorite(u.ID) {
		marker = styles.Favorite.Render(favoriteMarker)
	}
	name := u.ShortName()
	if u.ID.Scope == unit.User {
		name += " (user)"
	}
	name = truncateText(name, max(width-2, 1))
	style := styles.ForState(u.Active)
	if u.LoadState == systemd.NotLoaded {
		style = styles.NotLoaded
	}
	if selected {
		style = styles.SelectedItem
		name = padRight(name, max(width-2, 1))
	}
	return marker + style.Render(name)
}

func (m *Model) viewDetails(lay layout) string {
	u, ok := m.disp.Units().Selected()
	if !ok {
		return panel(false, lay.rightWidth, detailRows, "Details", nil)
	}
	enablement := u.Enablement
	if enablement == "" {
		enablement = "unknown"
	}
	rows := []table.Row{
		{Key: "Unit", Value: u.ID.Name},
		{Key: "Description", Value: u.Description},
		{Key: "Scope", Value: u.ID.Scope.String()},
		{Key: "Loaded", Value: u.LoadState},
		{Key: "Active", Value: fmt.Sprintf("%s (%s)", u.Active, u.SubState), Style: styles.ForState(u.Active)},
		{Key: "Enabled", Value: enablement},
		m.unitFileRow(u),
	}
	lines := table.KeyValues(rows, max(lay.rightWidth-2, 1), *styles.DetailKey, *styles.DetailValue)
	return panel(false, lay.rightWidth, detailRows, "", lines)
}

func (m *Model) unitFileRow(u unit.Unit) table.Row {
	switch {
	case u.FilePath == nil:
		return table.Row{Key: "Unit file", Value: "…"}
	case u.FilePath.Err != "":
		return table.Row{Key: "Unit file", Value: u.FilePath.Err, Style: styles.DetailError}
	default:
		return table.Row{Key: "Unit file", Value: u.FilePath.Path}
	}
}

// logLines returns the buffer newest first, with timestamps dimmed and every
// line cut to width.
func logLines(lines []string, width int) []string {
	out := make([]string, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		line := truncateText(lines[i], width)
		stamp, rest, ok := strings.Cut(line, " ")
		if ok && looksLikeTimestamp(stamp) {
			out = append(out, styles.LogTimestamp.Render(stamp)+" "+styles.LogLine.Render(rest))
			continue
		}
		out = append(out, styles.LogLine.Render(line))
	}
	return out
}

func looksLikeTimestamp(s string) bool {
	return len(s) >= 10 && s[4] == '-' && s[7] == '-'
}

func (m *Model) viewLogs(lay layout) string {
	inner := max(lay.rightWidth-2, 1)
	logs := m.disp.Logs()
	lines := logs.Lines()
	if logs.Unit().IsZero() || len(lines) == 0 {
		msg := wordwrap.String(task.NoLogsMessage, inner)
		return panel(false, lay.rightWidth, lay.logRows, "", strings.Split(styles.Item.Render(msg), "\n"))
	}
	vp := viewport.New(inner, lay.logRows)
	vp.SetContent(strings.Join(logLines(lines, inner), "\n"))
	vp.SetYOffset(logs.Offset())
	return panel(false, lay.rightWidth, lay.logRows, "", strings.Split(vp.View(), "\n"))
}

// viewAppLog shows the newest application log entries, newest last.
func (m *Model) viewAppLog(lay layout) string {
	inner := max(lay.rightWidth-2, 1)
	entries := logging.Recent()
	visible := lay.appLogRows - 1
	if len(entries) > visible {
		entries = entries[len(entries)-visible:]
	}
	lines := make([]string, 0, lay.appLogRows)
	lines = append(lines, styles.PanelTitle.Render(truncateText(appLogTitle, inner)))
	for _, e := range entries {
		lines = append(lines, styles.LogLine.Render(truncateText(e, inner)))
	}
	return panel(false, lay.rightWidth, lay.appLogRows, "", lines)
}

func (m *Model) viewModal(lay layout) string {
	width := min(modalMaxWidth, max(lay.width-4, 10))
	inner := width - 4
	switch m.disp.Mode() {
	case mode.Help:
		m.help.Width = inner
		body := m.help.FullHelpView(m.keys.FullHelp())
		return modal(styles.Modal, width, "Help", body, "esc to close")
	case mode.ActionMenu:
		items, cursor := m.disp.MenuItems()
		title := "Actions"
		if u, ok := m.disp.Units().Selected(); ok {
			title = "Actions: " + u.ID.Name
		}
		lines := make([]string, len(items))
		for i, item := range items {
			label := truncateText(item.Label, inner-2)
			if i == cursor {
				lines[i] = styles.MenuSelected.Render("> " + label)
			} else {
				lines[i] = styles.MenuItem.Render("  " + label)
			}
		}
		return modal(styles.Modal, width, title, strings.Join(lines, "\n"), "enter to run, esc to close")
	case mode.Processing:
		label, ticks := m.disp.Task()
		frames := m.spinner.Spinner.Frames
		frame := m.spinner.Style.Render(frames[ticks%len(frames)])
		return modal(styles.Modal, width, "Working", frame+" "+label, "esc to cancel")
	case mode.Error:
		body := wordwrap.String(m.disp.ErrorMessage(), inner)
		return modal(styles.ErrorModal, width, "Error", body, "enter or esc to dismiss")
	}
	return ""
}

func modal(style *lipgloss.Style, width int, title, body, hint string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitle.Render(title),
		"",
		body,
		"",
		styles.Footer.Render(hint),
	)
	return style.Width(width - 2).Render(content)
}

func (m *Model) viewStatus(lay layout) string {
	text, isErr := m.disp.Status()
	if m.disp.FavoritesDirty() {
		if text != "" {
			text += "  "
		}
		text += "[favorites unsaved, ctrl+s]"
	}
	if text != "" {
		style := styles.Status
		if isErr {
			style = styles.StatusError
		}
		return style.Render(truncateText(text, lay.width))
	}
	m.help.Width = lay.width
	return styles.Footer.Render(m.help.ShortHelpView(m.keys.forMode(m.disp.Mode()).ShortHelp()))
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return truncate.String(text, 1)
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
