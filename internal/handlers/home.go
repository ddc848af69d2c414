package handlers

import (
	"net/http"
	"slices"

	"tasklist/internal/chat"
	"tasklist/internal/models"
	"tasklist/internal/store"
)

// HomeData holds data for the home page template.
type HomeData struct {
	Title           string
	Filter          models.Filter
	Filters         []models.Filter
	Search          string
	Tasks           []models.Task
	Counts          store.Counts
	Priorities      []models.Priority
	DefaultPriority models.Priority
	Theme           models.Theme
	Themes          []models.Theme
	Messages        []chat.Message
	Warning         string
}

// Home renders the task list page for the filter and search in the query string.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	q := r.URL.Query()
	filter := models.ParseFilter(q.Get("filter"))
	search := q.Get("q")

	data := HomeData{
		Title:           "My Tasks",
		Filter:          filter,
		Filters:         []models.Filter{models.FilterAll, models.FilterActive, models.FilterCompleted},
		Search:          search,
		Tasks:           slices.Collect(h.tasks.View(filter, search)),
		Counts:          h.tasks.Counts(),
		Priorities:      models.Priorities(),
		DefaultPriority: h.tasks.DefaultPriority(),
		Themes:          models.Themes(),
		Messages:        h.chat.Messages(),
	}

	if err := h.tasks.LoadError(); err != nil {
		data.Warning = "Saved tasks could not be fully restored; changes will overwrite them. (" + err.Error() + ")"
	}

	current, err := h.themes.Current(r.Context())
	if h.warn(w, err) && err != nil && data.Warning == "" {
		data.Warning = "Preferences could not be read; using defaults."
	}
	data.Theme = current

	h.render(w, "index.html", data)
}
