package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

type presetRequest struct {
	Name    string         `json:"name"`
	Mapping roster.Mapping `json:"mapping"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	p, err := s.service.CreatePreset(r.Context(), req.Name, req.Mapping)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.GetPreset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	p, err := s.service.UpdatePreset(r.Context(), chi.URLParam(r, "id"), req.Name, req.Mapping)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeletePreset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetColors returns the owner's physician colors.
func (s *Server) handleGetColors(w http.ResponseWriter, r *http.Request) {
	colors, err := s.service.DoctorColors(r.Context(), chi.URLParam(r, "owner"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, colors)
}

// handlePutColors replaces the owner's physician colors and returns them
// normalized.
func (s *Server) handlePutColors(w http.ResponseWriter, r *http.Request) {
	var colors map[string]string
	if err := s.decodeJSON(w, r, &colors); err != nil {
		s.respondError(w, r, err)
		return
	}

	saved, err := s.service.PutDoctorColors(r.Context(), chi.URLParam(r, "owner"), colors)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
