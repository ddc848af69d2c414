// Package store holds the task collection and keeps it mirrored to a
// key-value snapshot. Every mutation writes the full snapshot back.
//
// A TaskStore is not safe for concurrent use; callers serialise access.
package store

import (
	"context"
	"errors"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"tasklist/internal/kv"
	"tasklist/internal/models"
)

// TasksKey is the key the snapshot is stored under.
const TasksKey = "tasks"

// maxIDAttempts bounds retries when a generator hands out an id already issued.
const maxIDAttempts = 8

// Counts summarises the collection for display.
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// TaskStore owns the ordered task collection.
type TaskStore struct {
	kv     kv.Store
	logger *log.Logger

	newID           func() string
	defaultPriority models.Priority

	tasks     []models.Task
	editingID string
	issued    map[string]struct{}
	loadErr   error
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithIDGenerator replaces the UUID generator used for new tasks.
func WithIDGenerator(fn func() string) Option {
	return func(s *TaskStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger persistence warnings are written to.
func WithLogger(logger *log.Logger) Option {
	return func(s *TaskStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultPriority sets the priority used when a caller passes an unknown one.
func WithDefaultPriority(p models.Priority) Option {
	return func(s *TaskStore) {
		if p.Valid() {
			s.defaultPriority = p
		}
	}
}

// New creates an empty TaskStore backed by store. Call Load to restore the
// persisted snapshot.
func New(store kv.Store, opts ...Option) *TaskStore {
	s := &TaskStore{
		kv:              store,
		logger:          log.New(io.Discard),
		newID:           uuid.NewString,
		defaultPriority: models.PriorityMedium,
		issued:          make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPriority returns the priority assigned when none is selected.
func (s *TaskStore) DefaultPriority() models.Priority {
	return s.defaultPriority
}

// Load replaces the collection with the persisted snapshot. A missing snapshot
// yields an empty collection. A malformed one yields an empty collection, or
// the valid tasks when only some entries are bad, and a *CorruptSnapshotError;
// a read failure yields an empty collection and a *PersistenceError. Edit mode
// is reset. The error is also kept for LoadError.
func (s *TaskStore) Load(ctx context.Context) error {
	s.loadErr = s.load(ctx)
	return s.loadErr
}

// LoadError returns the error reported by the most recent Load, so a caller
// can keep warning about it after startup.
func (s *TaskStore) LoadError() error {
	return s.loadErr
}

func (s *TaskStore) load(ctx context.Context) error {
	s.tasks = nil
	s.editingID = ""

	raw, ok, err := s.kv.Get(ctx, TasksKey)
	if err != nil {
		s.logger.Warn("snapshot read failed, starting empty", "err", err)
		return &PersistenceError{Op: "load", Key: TasksKey, Err: err}
	}
	if !ok {
		return nil
	}

	tasks, err := decodeSnapshot(raw, s.defaultPriority)
	for _, t := range tasks {
		s.tasks = append(s.tasks, t)
		s.issued[t.ID] = struct{}{}
	}
	if err != nil {
		s.logger.Warn("snapshot is corrupt", "err", err, "recovered", len(s.tasks))
		return err
	}

	s.logger.Debug("snapshot loaded", "tasks", len(s.tasks))
	return nil
}

// Save writes the full collection to the snapshot key, overwriting any prior value.
func (s *TaskStore) Save(ctx context.Context) error {
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = s.present(t)
	}

	raw, err := encodeSnapshot(out)
	if err != nil {
		return &PersistenceError{Op: "save", Key: TasksKey, Err: err}
	}
	if err := s.kv.Set(ctx, TasksKey, raw); err != nil {
		s.logger.Warn("snapshot write failed, continuing in memory", "err", err)
		return &PersistenceError{Op: "save", Key: TasksKey, Err: err}
	}
	return nil
}

// Add appends a new task. Blank text returns ErrEmptyInput and changes
// nothing. An unknown priority is replaced by the default. The created task
// is returned even if persisting it fails.
func (s *TaskStore) Add(ctx context.Context, text string, priority models.Priority) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, ErrEmptyInput
	}
	if !priority.Valid() {
		priority = s.defaultPriority
	}

	id, err := s.generateID()
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:       id,
		Text:     text,
		Priority: priority,
	}
	s.tasks = append(s.tasks, task)

	return task, s.Save(ctx)
}

// ToggleComplete flips the completed flag of the task with id.
// Unknown ids are ignored.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.Save(ctx)
}

// Delete removes the task with id, keeping the order of the rest.
// Unknown ids are ignored.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	if s.editingID == id {
		s.editingID = ""
	}
	return s.Save(ctx)
}

// BeginEdit puts the task with id into edit mode, ending any other edit.
// An unknown id still ends the current edit.
func (s *TaskStore) BeginEdit(id string) {
	s.editingID = ""
	if s.index(id) >= 0 {
		s.editingID = id
	}
}

// CommitEdit replaces the task's text with newText when it is non-blank after
// trimming, and leaves edit mode either way. Unknown ids are ignored.
func (s *TaskStore) CommitEdit(ctx context.Context, id, newText string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	if text := strings.TrimSpace(newText); text != "" {
		s.tasks[i].Text = text
	}
	if s.editingID == id {
		s.editingID = ""
	}
	return s.Save(ctx)
}

// CancelEdit leaves edit mode without touching the text. Edit mode is
// display state only, so nothing is persisted.
func (s *TaskStore) CancelEdit(id string) {
	if s.editingID == id {
		s.editingID = ""
	}
}

// Reorder moves the source task to the target task's index as it was before
// the source was removed. Moving up lands the task just before the target;
// moving down lands it just after. Missing or equal ids are ignored.
func (s *TaskStore) Reorder(ctx context.Context, sourceID, targetID string) error {
	src, dst := s.index(sourceID), s.index(targetID)
	if src < 0 || dst < 0 || src == dst {
		return nil
	}

	moved := s.tasks[src]
	s.tasks = slices.Delete(s.tasks, src, src+1)
	s.tasks = slices.Insert(s.tasks, dst, moved)

	return s.Save(ctx)
}

// ClearCompleted removes every completed task, keeping the order of the rest.
func (s *TaskStore) ClearCompleted(ctx context.Context) error {
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool {
		return t.Completed
	})
	if s.editingID != "" && s.index(s.editingID) < 0 {
		s.editingID = ""
	}
	return s.Save(ctx)
}

// View yields the tasks passing filter whose text contains search, ignoring
// case and surrounding space, in canonical order. Each range over the result
// reads the collection afresh.
func (s *TaskStore) View(filter models.Filter, search string) iter.Seq[models.Task] {
	term := strings.ToLower(strings.TrimSpace(search))
	return func(yield func(models.Task) bool) {
		for _, t := range s.tasks {
			if !filter.Includes(t) || !t.Matches(term) {
				continue
			}
			if !yield(s.present(t)) {
				return
			}
		}
	}
}

// Get returns the task with id.
func (s *TaskStore) Get(id string) (models.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.present(s.tasks[i]), true
}

// Tasks returns a copy of the whole collection in canonical order.
func (s *TaskStore) Tasks() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for t := range s.View(models.FilterAll, "") {
		out = append(out, t)
	}
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// EditingID returns the id of the task in edit mode, if any.
func (s *TaskStore) EditingID() (string, bool) {
	return s.editingID, s.editingID != ""
}

// Counts returns how many tasks there are in total, active and completed.
func (s *TaskStore) Counts() Counts {
	c := Counts{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

func (s *TaskStore) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.tasks, func(t models.Task) bool {
		return t.ID == id
	})
}

func (s *TaskStore) present(t models.Task) models.Task {
	t.Editing = t.ID == s.editingID
	return t
}

func (s *TaskStore) generateID() (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, used := s.issued[id]; used {
			continue
		}
		s.issued[id] = struct{}{}
		return id, nil
	}
	return "", errors.New("could not generate a unique task id")
}
