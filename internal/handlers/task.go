package handlers

import (
	"errors"
	"net/http"
	"slices"

	"tasklist/internal/models"
	"tasklist/internal/store"
)

// ListTasks returns the current view of the task list as JSON.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	q := r.URL.Query()
	tasks := slices.Collect(h.tasks.View(models.ParseFilter(q.Get("filter")), q.Get("q")))
	if tasks == nil {
		tasks = []models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask appends a new task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	input, err := readInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	priority, ok := models.ParsePriority(input["priority"])
	if !ok {
		priority = h.tasks.DefaultPriority()
	}

	task, err := h.tasks.Add(r.Context(), input["text"], priority)
	if errors.Is(err, store.ErrEmptyInput) {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// ToggleTask toggles the completion status of a task.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	id := taskID(r)
	if _, ok := h.tasks.Get(id); !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := h.tasks.ToggleComplete(r.Context(), id); !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}

	task, _ := h.tasks.Get(id)
	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task. Deleting an unknown task succeeds.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	if err := h.tasks.Delete(r.Context(), taskID(r)); !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// BeginEdit puts a task into edit mode.
func (h *Handlers) BeginEdit(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	id := taskID(r)
	h.tasks.BeginEdit(id)

	task, ok := h.tasks.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTask commits an edit of the task's text. Blank text keeps the old text.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	id := taskID(r)
	if _, ok := h.tasks.Get(id); !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}

	input, err := readInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if err := h.tasks.CommitEdit(r.Context(), id, input["text"]); !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}

	task, _ := h.tasks.Get(id)
	respondJSON(w, http.StatusOK, task)
}

// CancelEdit leaves edit mode without changing the task.
func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	id := taskID(r)
	h.tasks.CancelEdit(id)

	task, ok := h.tasks.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// ReorderTasks moves source_id onto target_id, as resolved from a drag gesture.
func (h *Handlers) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	input, err := readInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input["source_id"] == "" || input["target_id"] == "" {
		respondError(w, http.StatusBadRequest, "source_id and target_id are required")
		return
	}

	if err := h.tasks.Reorder(r.Context(), input["source_id"], input["target_id"]); !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.tasks.Tasks())
}

// ClearCompleted removes all completed tasks.
func (h *Handlers) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	if err := h.tasks.ClearCompleted(r.Context()); !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.tasks.Tasks())
}
