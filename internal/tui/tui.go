// Package tui provides the terminal interface over the task store.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tasklist/internal/models"
	"tasklist/internal/store"
	"tasklist/internal/theme"
)

// Run starts the terminal interface and blocks until the user quits.
func Run(ctx context.Context, tasks *store.TaskStore, themes *theme.Service, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := New(ctx, tasks, themes, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeSearch
)

// Model is the bubbletea model for the task list. The bubbletea update loop
// is serial, so the store is only ever touched from one goroutine.
type Model struct {
	ctx    context.Context
	tasks  *store.TaskStore
	themes *theme.Service
	logger *log.Logger

	filter   models.Filter
	search   string
	cursor   int
	mode     mode
	input    []rune
	priority models.Priority
	theme    models.Theme
	status   string
	showHelp bool

	visible []models.Task
}

// New creates a Model. A nil logger discards output.
func New(ctx context.Context, tasks *store.TaskStore, themes *theme.Service, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{
		ctx:      ctx,
		tasks:    tasks,
		themes:   themes,
		logger:   logger,
		filter:   models.FilterAll,
		priority: tasks.DefaultPriority(),
	}

	current, err := themes.Current(ctx)
	m.theme = current
	m.report(err)
	if err := tasks.LoadError(); err != nil {
		m.report(err)
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd, modeEdit, modeSearch:
		m.updateInput(key)
		return m, nil
	}
	return m.updateList(key)
}

func (m *Model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeySpace {
		if t, ok := m.selected(); ok {
			m.report(m.tasks.ToggleComplete(m.ctx, t.ID))
		}
		m.refresh()
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "a":
		m.mode = modeAdd
		m.input = nil
		m.priority = m.tasks.DefaultPriority()
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.tasks.BeginEdit(t.ID)
			m.mode = modeEdit
			m.input = []rune(t.Text)
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.report(m.tasks.Delete(m.ctx, t.ID))
		}
	case "J":
		m.move(1)
	case "K":
		m.move(-1)
	case "1":
		m.setFilter(models.FilterAll)
	case "2":
		m.setFilter(models.FilterActive)
	case "3":
		m.setFilter(models.FilterCompleted)
	case "/":
		m.mode = modeSearch
		m.input = []rune(m.search)
	case "c":
		m.report(m.tasks.ClearCompleted(m.ctx))
	case "t":
		selected, err := m.themes.ToggleDark(m.ctx)
		if selected != "" {
			m.theme = selected
		}
		m.report(err)
	case "?", "h":
		m.showHelp = !m.showHelp
	}

	m.refresh()
	return m, nil
}

func (m *Model) updateInput(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyEnter:
		m.submitInput()
		return
	case tea.KeyEsc:
		m.cancelInput()
		return
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeyTab:
		if m.mode == modeAdd {
			m.priority = nextPriority(m.priority)
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		if !key.Alt {
			m.input = append(m.input, key.Runes...)
		}
	}

	if m.mode == modeSearch {
		m.search = string(m.input)
		m.refresh()
	}
}

func (m *Model) submitInput() {
	text := string(m.input)
	switch m.mode {
	case modeAdd:
		_, err := m.tasks.Add(m.ctx, text, m.priority)
		if errors.Is(err, store.ErrEmptyInput) {
			err = nil
		}
		m.report(err)
	case modeEdit:
		if id, ok := m.tasks.EditingID(); ok {
			m.report(m.tasks.CommitEdit(m.ctx, id, text))
		}
	case modeSearch:
		m.search = text
	}
	m.mode = modeList
	m.input = nil
	m.refresh()
}

func (m *Model) cancelInput() {
	switch m.mode {
	case modeEdit:
		if id, ok := m.tasks.EditingID(); ok {
			m.tasks.CancelEdit(id)
		}
	case modeSearch:
		m.search = ""
	}
	m.mode = modeList
	m.input = nil
	m.refresh()
}

// move swaps the selected task with its neighbour in the current view.
func (m *Model) move(delta int) {
	src, ok := m.selected()
	if !ok {
		return
	}
	to := m.cursor + delta
	if to < 0 || to >= len(m.visible) {
		return
	}
	m.report(m.tasks.Reorder(m.ctx, src.ID, m.visible[to].ID))
	m.cursor = to
}

func (m *Model) setFilter(f models.Filter) {
	m.filter = f
	m.cursor = 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refresh() {
	m.visible = slices.Collect(m.tasks.View(m.filter, m.search))
	m.clampCursor()
}

func (m *Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return models.Task{}, false
	}
	return m.visible[m.cursor], true
}

// report puts err on the status line. Persistence problems are warnings:
// the change stays in memory for this session.
func (m *Model) report(err error) {
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, store.ErrPersistence), errors.Is(err, store.ErrCorruptSnapshot):
		m.logger.Warn("changes kept for this session only", "err", err)
		m.status = "Warning: " + err.Error()
	default:
		m.logger.Error("action failed", "err", err)
		m.status = "Error: " + err.Error()
	}
}

func nextPriority(p models.Priority) models.Priority {
	all := models.Priorities()
	i := slices.Index(all, p)
	return all[(i+1)%len(all)]
}

func (m *Model) View() string {
	st := stylesFor(m.theme)
	var b strings.Builder

	b.WriteString(st.title.Render("Tasks") + "\n")
	c := m.tasks.Counts()
	b.WriteString(st.muted.Render(fmt.Sprintf("%d total, %d active, %d completed", c.Total, c.Active, c.Completed)) + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	writeFilters(&b, st, m.filter)
	if m.search != "" || m.mode == modeSearch {
		b.WriteString(fmt.Sprintf("Search: %s\n", m.search))
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(st.muted.Render("  No tasks.") + "\n")
	}
	for i, t := range m.visible {
		b.WriteString(formatTask(st, t, i == m.cursor) + "\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(fmt.Sprintf("New task [%s]: %s_\n", m.priority.Label(), string(m.input)))
		b.WriteString(st.muted.Render("enter add | tab priority | esc cancel") + "\n")
	case modeEdit:
		b.WriteString(fmt.Sprintf("Edit: %s_\n", string(m.input)))
		b.WriteString(st.muted.Render("enter save | esc cancel") + "\n")
	case modeSearch:
		b.WriteString(st.muted.Render("enter keep | esc clear") + "\n")
	default:
		b.WriteString(st.muted.Render("a add | space toggle | e edit | d delete | J/K move | / search | ? help | q quit") + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + st.warning.Render(m.status) + "\n")
	}
	return b.String()
}

func writeFilters(b *strings.Builder, st styles, current models.Filter) {
	labels := []struct {
		key    string
		filter models.Filter
	}{
		{"1", models.FilterAll},
		{"2", models.FilterActive},
		{"3", models.FilterCompleted},
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		label := fmt.Sprintf("%s %s", l.key, l.filter)
		if l.filter == current {
			parts = append(parts, st.active.Render(label))
		} else {
			parts = append(parts, st.muted.Render(label))
		}
	}
	b.WriteString(strings.Join(parts, "  ") + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j  Move cursor\n")
	b.WriteString("  a             Add task (tab cycles priority)\n")
	b.WriteString("  space         Toggle completed\n")
	b.WriteString("  e, enter      Edit text (enter saves, esc cancels)\n")
	b.WriteString("  d             Delete task\n")
	b.WriteString("  J, K          Move task down, up\n")
	b.WriteString("  1, 2, 3       Show all, active, completed\n")
	b.WriteString("  /             Search\n")
	b.WriteString("  c             Clear completed\n")
	b.WriteString("  t             Toggle dark theme\n")
	b.WriteString("  ?, h          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Quit\n")
}

func formatTask(st styles, t models.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = st.active.Render("> ")
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	text := t.Text
	switch {
	case t.Editing:
		text = st.active.Render(text + " (editing)")
	case t.Completed:
		text = st.done.Render(text)
	}

	return fmt.Sprintf("%s%s %s %s", pointer, check, st.priority(t.Priority), text)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
