package server

import (
	"net/http"
	"strconv"

	"github.com/bobmcallan/andolan/internal/models"
)

// handleTimelineCollection handles GET /api/timeline (raw records) and
// POST /api/timeline (admin create).
func (s *Server) handleTimelineCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		records, err := s.app.TimelineService.ListRecords(r.Context())
		if err != nil {
			s.writeServiceError(w, err, "list timeline records")
			return
		}
		WriteJSON(w, http.StatusOK, records)

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var rec models.TimelineRecord
		if !DecodeJSON(w, r, &rec) {
			return
		}
		created, err := s.app.TimelineService.CreateRecord(r.Context(), &rec)
		if err != nil {
			s.writeServiceError(w, err, "create timeline record")
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodHead, http.MethodPost)
	}
}

// handleTimelineRecord handles GET, PUT and DELETE /api/timeline/{id}.
func (s *Server) handleTimelineRecord(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		rec, err := s.app.TimelineService.GetRecord(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err, "get timeline record")
			return
		}
		WriteJSON(w, http.StatusOK, rec)

	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		var rec models.TimelineRecord
		if !DecodeJSON(w, r, &rec) {
			return
		}
		updated, err := s.app.TimelineService.UpdateRecord(r.Context(), id, &rec)
		if err != nil {
			s.writeServiceError(w, err, "update timeline record")
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		if err := s.app.TimelineService.DeleteRecord(r.Context(), id); err != nil {
			s.writeServiceError(w, err, "delete timeline record")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete)
	}
}

// handleKeyMilestones handles GET /api/timeline/key-milestones?limit=N.
func (s *Server) handleKeyMilestones(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.app.TimelineService.KeyMilestones(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err, "list key milestones")
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// handleTimelineView handles GET /api/timeline/view?category=&achievement=&decade=.
func (s *Server) handleTimelineView(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	q := r.URL.Query()
	filters := models.FilterTriple{
		Category:    q.Get("category"),
		Achievement: q.Get("achievement"),
		Decade:      q.Get("decade"),
	}

	view, err := s.app.TimelineService.View(r.Context(), filters)
	if err != nil {
		s.writeServiceError(w, err, "compute timeline view")
		return
	}
	WriteJSON(w, http.StatusOK, view)
}
