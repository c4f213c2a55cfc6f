package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/andolan/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/profile", s.handleAuthProfile)

	// Timeline
	mux.HandleFunc("/api/timeline/", s.routeTimeline)
	mux.HandleFunc("/api/timeline", s.handleTimelineCollection)

	// Members
	mux.HandleFunc("/api/members/", s.routeMembers)
	mux.HandleFunc("/api/members", s.handleMemberCollection)
}

// routeTimeline dispatches /api/timeline/{...}.
func (s *Server) routeTimeline(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/timeline/"), "/")

	switch {
	case rest == "":
		s.handleTimelineCollection(w, r)
	case rest == "key-milestones":
		s.handleKeyMilestones(w, r)
	case rest == "view":
		s.handleTimelineView(w, r)
	case !strings.Contains(rest, "/"):
		s.handleTimelineRecord(w, r, rest)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeMembers dispatches /api/members/{id}[/status|/document].
func (s *Server) routeMembers(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/members/"), "/")
	id := PathParam(r, "/api/members/", "")

	switch {
	case rest == "":
		s.handleMemberCollection(w, r)
	case rest == id:
		s.handleMemberRecord(w, r, id)
	case rest == id+"/status":
		s.handleMemberStatus(w, r, id)
	case rest == id+"/document":
		s.handleMemberDocument(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
		"backend": s.app.Storage.Backend(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
