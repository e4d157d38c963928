package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gracetownland/OER-AI/internal/h5p"
	"github.com/gracetownland/OER-AI/internal/practice"
)

type practiceRequest struct {
	BookID string `json:"book_id"`
	practice.Request
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.BookID = strings.TrimSpace(req.BookID)
	if req.BookID == "" {
		jsonError(w, "book_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		jsonError(w, "topic is required", http.StatusBadRequest)
		return
	}

	material, err := s.generator.Generate(r.Context(), req.BookID, req.Request)
	if err != nil {
		s.log.Error("practice generation failed", "book_id", req.BookID, "error", err)
		jsonError(w, "practice generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(material)
}

type exportH5PRequest struct {
	Title     string                 `json:"title"`
	Questions []practice.MCQQuestion `json:"questions"`
}

func (s *Server) handleExportH5P(w http.ResponseWriter, r *http.Request) {
	var req exportH5PRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Questions) == 0 {
		jsonError(w, "no questions provided", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = "Generated Quiz"
	}

	questions := make([]h5p.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, h5p.FromMCQ(q))
	}

	pkg, err := h5p.BuildPackage(req.Title, questions)
	if err != nil {
		s.log.Error("h5p export failed", "error", err)
		jsonError(w, "h5p export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": h5p.Filename(req.Title),
		"content":  base64.StdEncoding.EncodeToString(pkg),
		"size":     len(pkg),
	})
}
