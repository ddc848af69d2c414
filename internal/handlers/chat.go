package handlers

import (
	"net/http"

	"tasklist/internal/chat"
)

// ListMessages returns the chat log.
func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages := h.chat.Messages()
	if messages == nil {
		messages = []chat.Message{}
	}
	respondJSON(w, http.StatusOK, messages)
}

// PostMessage submits a chat message. The reply arrives later; clients poll ListMessages.
func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	input, err := readInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, placeholder, ok := h.chat.Submit(input["text"])
	if !ok {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	respondJSON(w, http.StatusAccepted, []chat.Message{user, placeholder})
}
