package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndelvaux/notesmith/internal/notes"
)

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	n, ok := s.orchestrator.Notes().Get(chi.URLParam(r, "notesID"))
	if !ok {
		jsonError(w, "notes not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(n)
}

func (s *Server) handleNotesMarkdown(w http.ResponseWriter, r *http.Request) {
	n, ok := s.orchestrator.Notes().Get(chi.URLParam(r, "notesID"))
	if !ok {
		jsonError(w, "notes not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(notes.ToMarkdown(n)))
}

func (s *Server) handleNotesPreview(w http.ResponseWriter, r *http.Request) {
	n, ok := s.orchestrator.Notes().Get(chi.URLParam(r, "notesID"))
	if !ok {
		jsonError(w, "notes not found", http.StatusNotFound)
		return
	}
	page, err := notes.RenderHTML(n.Title, notes.ToMarkdown(n))
	if err != nil {
		s.log.Error("preview render failed", "notes_id", n.ID, "error", err)
		jsonError(w, "failed to render preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}
