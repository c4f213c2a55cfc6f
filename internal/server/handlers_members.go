package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/andolan/internal/models"
)

const (
	maxRegistrationBytes = 10 << 20 // form plus document photo
	maxDocumentBytes     = 5 << 20
)

// handleMemberCollection handles POST /api/members (public registration,
// multipart form) and GET /api/members (admin list).
func (s *Server) handleMemberCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleMemberRegister(w, r)

	case http.MethodGet:
		if !s.requireAdmin(w, r) {
			return
		}
		members, err := s.app.MemberService.ListMembers(r.Context())
		if err != nil {
			s.writeServiceError(w, err, "list members")
			return
		}
		WriteJSON(w, http.StatusOK, members)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleMemberRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRegistrationBytes)
	if err := r.ParseMultipartForm(maxRegistrationBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSON(w, http.StatusRequestEntityTooLarge, models.RegistrationResult{
				Message: fmt.Sprintf("Registration form exceeds %dMB", maxRegistrationBytes>>20),
			})
			return
		}
		WriteJSON(w, http.StatusBadRequest, models.RegistrationResult{
			Message: "Invalid registration form: " + err.Error(),
		})
		return
	}
	defer r.MultipartForm.RemoveAll()

	field := func(name string) string {
		return strings.TrimSpace(r.FormValue(name))
	}
	app := &models.MemberApplication{
		Name:           field("name"),
		Village:        field("village"),
		City:           field("city"),
		PhoneNumber:    field("phoneNumber"),
		Details:        field("details"),
		MembershipType: field("membershipType"),
		DocumentType:   field("documentType"),
		Age:            field("age"),
		Education:      field("education"),
		Experience:     field("experience"),
	}

	if file, header, err := r.FormFile("documentPhoto"); err == nil {
		data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
		file.Close()
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, models.RegistrationResult{Message: "Failed to read document photo"})
			return
		}
		if len(data) > maxDocumentBytes {
			WriteJSON(w, http.StatusRequestEntityTooLarge, models.RegistrationResult{Message: "Document photo exceeds 5MB"})
			return
		}
		app.DocumentPhoto = data
		app.DocumentName = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		WriteJSON(w, http.StatusBadRequest, models.RegistrationResult{Message: "Invalid document photo"})
		return
	}

	result, err := s.app.MemberService.Register(r.Context(), app)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Registration failed"
		if isClientError(err) {
			status = http.StatusBadRequest
			message = err.Error()
		} else {
			s.logger.Error().Err(err).Msg("Member registration failed")
		}
		WriteJSON(w, status, models.RegistrationResult{Message: message})
		return
	}
	WriteJSON(w, http.StatusCreated, result)
}

// handleMemberRecord handles GET and DELETE /api/members/{id} (admin).
func (s *Server) handleMemberRecord(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		if !s.requireAdmin(w, r) {
			return
		}
		m, err := s.app.MemberService.GetMember(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err, "get member")
			return
		}
		WriteJSON(w, http.StatusOK, m)

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		if err := s.app.MemberService.DeleteMember(r.Context(), id); err != nil {
			s.writeServiceError(w, err, "delete member")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleMemberDocument handles GET /api/members/{id}/document (admin) and
// serves the uploaded identity document.
func (s *Server) handleMemberDocument(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	doc, err := s.app.MemberService.GetDocument(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "get member document")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

// handleMemberStatus handles PUT /api/members/{id}/status (admin).
func (s *Server) handleMemberStatus(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	m, err := s.app.MemberService.SetStatus(r.Context(), id, req.Status, strings.TrimSpace(req.Notes))
	if err != nil {
		s.writeServiceError(w, err, "update member status")
		return
	}
	WriteJSON(w, http.StatusOK, m)
}
