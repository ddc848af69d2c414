package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/kv"
	"tasklist/internal/models"
	"tasklist/internal/store"
	"tasklist/internal/theme"
)

func setupTestModel(t *testing.T, items ...string) (*Model, *store.TaskStore, *kv.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	backend := kv.NewMemory()
	s := store.New(backend)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("failed to load test store: %v", err)
	}
	for _, text := range items {
		if _, err := s.Add(ctx, text, models.PriorityMedium); err != nil {
			t.Fatalf("failed to add %q: %v", text, err)
		}
	}
	return New(ctx, s, theme.New(backend), nil), s, backend
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		press(m, runes(string(r)))
	}
}

func texts(s *store.TaskStore) []string {
	var out []string
	for _, t := range s.Tasks() {
		out = append(out, t.Text)
	}
	return out
}

func TestAddTask(t *testing.T) {
	m, s, _ := setupTestModel(t)

	press(m, runes("a"))
	typeText(m, "buy milk")
	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})

	tasks := s.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Text != "buy milk" {
		t.Errorf("expected text %q, got %q", "buy milk", tasks[0].Text)
	}
	if tasks[0].Priority != models.PriorityHigh {
		t.Errorf("expected tab to cycle medium to high, got %q", tasks[0].Priority)
	}
	if m.mode != modeList {
		t.Error("expected to return to list mode")
	}
}

func TestAddTask_BlankIsIgnored(t *testing.T) {
	m, s, _ := setupTestModel(t)

	press(m, runes("a"))
	typeText(m, "   ")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if s.Len() != 0 {
		t.Errorf("expected no task, got %d", s.Len())
	}
	if m.status != "" {
		t.Errorf("expected no status, got %q", m.status)
	}
}

func TestToggleAndFilter(t *testing.T) {
	m, s, _ := setupTestModel(t, "A", "B")

	press(m, runes("j"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if c := s.Counts(); c.Completed != 1 {
		t.Fatalf("expected 1 completed, got %d", c.Completed)
	}

	press(m, runes("2"))
	if len(m.visible) != 1 || m.visible[0].Text != "A" {
		t.Errorf("expected only A in active view, got %+v", m.visible)
	}

	press(m, runes("3"))
	if len(m.visible) != 1 || m.visible[0].Text != "B" {
		t.Errorf("expected only B in completed view, got %+v", m.visible)
	}

	press(m, runes("c"), runes("1"))
	if got := texts(s); len(got) != 1 || got[0] != "A" {
		t.Errorf("expected [A] after clear completed, got %v", got)
	}
}

func TestEditCommitAndCancel(t *testing.T) {
	m, s, _ := setupTestModel(t, "Original")

	press(m, runes("e"))
	if _, editing := s.EditingID(); !editing {
		t.Fatal("expected edit mode")
	}
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "s!")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := texts(s)[0]; got != "Originas!" {
		t.Errorf("expected %q, got %q", "Originas!", got)
	}
	if _, editing := s.EditingID(); editing {
		t.Error("expected edit mode to end after commit")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	typeText(m, "zzz")
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := texts(s)[0]; got != "Originas!" {
		t.Errorf("expected cancel to keep text, got %q", got)
	}
	if _, editing := s.EditingID(); editing {
		t.Error("expected edit mode to end after cancel")
	}
}

func TestMoveTasks(t *testing.T) {
	m, s, _ := setupTestModel(t, "A", "B", "C")

	press(m, runes("J"))
	if got := strings.Join(texts(s), ""); got != "BAC" {
		t.Errorf("expected BAC after moving down, got %s", got)
	}
	if m.cursor != 1 {
		t.Errorf("expected cursor to follow the task, got %d", m.cursor)
	}

	press(m, runes("j"), runes("K"))
	if got := strings.Join(texts(s), ""); got != "BCA" {
		t.Errorf("expected BCA after moving up, got %s", got)
	}

	press(m, runes("K"), runes("K"))
	if got := strings.Join(texts(s), ""); got != "CBA" {
		t.Errorf("expected CBA with the move past the top ignored, got %s", got)
	}
}

func TestDelete(t *testing.T) {
	m, s, _ := setupTestModel(t, "A", "B")

	press(m, runes("j"), runes("d"))

	if got := texts(s); len(got) != 1 || got[0] != "A" {
		t.Errorf("expected [A], got %v", got)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestSearch(t *testing.T) {
	m, _, _ := setupTestModel(t, "buy milk", "write report")

	press(m, runes("/"))
	typeText(m, "MILK")
	if len(m.visible) != 1 {
		t.Fatalf("expected live search to narrow the view, got %d", len(m.visible))
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.search != "MILK" || len(m.visible) != 1 {
		t.Errorf("expected search kept, got %q with %d tasks", m.search, len(m.visible))
	}

	press(m, runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.search != "" || len(m.visible) != 2 {
		t.Errorf("expected search cleared, got %q with %d tasks", m.search, len(m.visible))
	}
}

func TestToggleTheme(t *testing.T) {
	m, _, backend := setupTestModel(t)

	press(m, runes("t"))

	if m.theme != models.ThemeDark {
		t.Errorf("expected dark, got %q", m.theme)
	}
	if raw, _, _ := backend.Get(context.Background(), theme.Key); raw != "dark" {
		t.Errorf("expected stored dark, got %q", raw)
	}
}

func TestPersistenceWarningShown(t *testing.T) {
	m, s, backend := setupTestModel(t, "A")
	backend.FailWrites(errors.New("disk full"))

	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if !strings.HasPrefix(m.status, "Warning:") {
		t.Errorf("expected warning status, got %q", m.status)
	}
	if c := s.Counts(); c.Completed != 1 {
		t.Error("expected change kept in memory")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("expected warning in view")
	}
}

func TestLoadWarningShownOnStart(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	backend.Set(ctx, store.TasksKey, `[{"id":"a","text":"  ","priority":"low"}]`)
	s := store.New(backend)
	s.Load(ctx)

	m := New(ctx, s, theme.New(backend), nil)

	if !strings.HasPrefix(m.status, "Warning:") || !strings.Contains(m.status, "invalid task") {
		t.Errorf("expected load warning in status, got %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m, _, _ := setupTestModel(t)
		cmd := press(m, key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", key)
		}
	}
}

func TestQuitKeyTypesInInputMode(t *testing.T) {
	m, _, _ := setupTestModel(t)

	press(m, runes("a"))
	if cmd := press(m, runes("q")); cmd != nil {
		t.Error("expected q to be typed, not quit")
	}
	if string(m.input) != "q" {
		t.Errorf("expected input q, got %q", string(m.input))
	}
}

func TestView(t *testing.T) {
	m, _, _ := setupTestModel(t, "buy milk")

	view := m.View()
	for _, want := range []string{"Tasks", "buy milk", "Medium", "1 total"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}

	press(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help screen")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("expected buffer not to be a TTY")
	}
}
