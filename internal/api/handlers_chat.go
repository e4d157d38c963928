package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type chatRequest struct {
	BookID   string `json:"book_id"`
	Question string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.BookID = strings.TrimSpace(req.BookID)
	req.Question = strings.TrimSpace(req.Question)
	if req.BookID == "" {
		jsonError(w, "book_id is required", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	answer, err := s.chat.Chat(r.Context(), sessionID, req.BookID, req.Question)
	if err != nil {
		s.log.Error("chat failed", "session_id", sessionID, "error", err)
		jsonError(w, "chat failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID,
		"answer":     answer.Text,
		"source":     answer.Source,
		"blocked":    answer.Blocked,
	})
}
