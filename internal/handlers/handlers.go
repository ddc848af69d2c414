package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"tasklist/internal/chat"
	"tasklist/internal/store"
	"tasklist/internal/theme"
)

// WarningHeader carries a non-fatal persistence warning on otherwise successful responses.
const WarningHeader = "X-Tasklist-Warning"

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	// mu serialises requests: the task store is driven one action at a time.
	mu sync.Mutex

	tasks     *store.TaskStore
	themes    *theme.Service
	chat      *chat.Panel
	templates *template.Template
	logger    *log.Logger
}

// New creates a new Handlers instance. A nil logger discards output.
func New(tasks *store.TaskStore, themes *theme.Service, panel *chat.Panel, tmpl *template.Template, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handlers{
		tasks:     tasks,
		themes:    themes,
		chat:      panel,
		templates: tmpl,
		logger:    logger,
	}
}

// lock serialises a request against every other request.
func (h *Handlers) lock() func() {
	h.mu.Lock()
	return h.mu.Unlock
}

// taskID extracts the task id from URL parameters.
func taskID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// readInput returns the request's string fields from a JSON object body or,
// for any other content type, from the parsed form.
func readInput(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		input := make(map[string]string)
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return nil, err
		}
		return input, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	input := make(map[string]string, len(r.Form))
	for key := range r.Form {
		input[key] = r.Form.Get(key)
	}
	return input, nil
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func (h *Handlers) respondServerError(w http.ResponseWriter, err error) {
	h.logger.Error("internal server error", "err", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// warn reports whether err is a non-fatal persistence problem. If so the
// warning header is set and the caller carries on with the in-memory state.
func (h *Handlers) warn(w http.ResponseWriter, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, store.ErrPersistence) || errors.Is(err, store.ErrCorruptSnapshot) {
		h.logger.Warn("changes kept for this session only", "err", err)
		w.Header().Set(WarningHeader, err.Error())
		return true
	}
	return false
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.respondServerError(w, err)
	}
}
