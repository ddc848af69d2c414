package handlers

import (
	"errors"
	"net/http"

	"tasklist/internal/models"
	"tasklist/internal/theme"
)

type themeResponse struct {
	Theme models.Theme `json:"theme"`
}

// GetTheme returns the current theme preference.
func (h *Handlers) GetTheme(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	current, err := h.themes.Current(r.Context())
	if !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, themeResponse{Theme: current})
}

// SetTheme stores a new theme preference.
func (h *Handlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	input, err := readInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	selected, err := h.themes.Set(r.Context(), models.Theme(input["theme"]))
	if errors.Is(err, theme.ErrUnknownTheme) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, themeResponse{Theme: selected})
}

// ToggleDark flips between the dark and light themes.
func (h *Handlers) ToggleDark(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	selected, err := h.themes.ToggleDark(r.Context())
	if !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, themeResponse{Theme: selected})
}

// ResetTheme clears the stored preference, returning to the default theme.
func (h *Handlers) ResetTheme(w http.ResponseWriter, r *http.Request) {
	defer h.lock()()

	selected, err := h.themes.Reset(r.Context())
	if !h.warn(w, err) {
		h.respondServerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, themeResponse{Theme: selected})
}
