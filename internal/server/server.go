package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/bartekjanek/siteplanner/pkg/plan"
	"github.com/bartekjanek/siteplanner/pkg/site"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// Server is the local development server for interactive planning.
type Server struct {
	projectPath string
	port        int

	mu         sync.Mutex
	lastResult *plan.Result
	lastReport *validation.Report
}

// New creates a server for the given project directory.
func New(projectPath string, port int) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/plan", s.handleLastPlan)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/site", s.handleSite)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("siteplanner server starting on http://localhost%s", addr)
	log.Printf("Project: %s", s.projectPath)

	return http.ListenAndServe(addr, mux)
}

// handlePlan runs the full pipeline on the project's site definition
// and caches the result for the GET endpoints.
func (s *Server) handlePlan(w http.ResponseWriter, _ *http.Request) {
	def, err := site.LoadProject(s.projectPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, report, err := plan.Run(def, plan.Options{})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":      err.Error(),
			"validation": report,
		})
		return
	}

	s.mu.Lock()
	s.lastResult = result
	s.lastReport = report
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"plan":       result,
		"validation": report,
	})
}

func (s *Server) handleLastPlan(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	result := s.lastResult
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if result == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"status": "no plan computed yet"})
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	report := s.lastReport
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if report == nil {
		json.NewEncoder(w).Encode(validation.NewReport())
		return
	}
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleSite(w http.ResponseWriter, _ *http.Request) {
	def, err := site.LoadProject(s.projectPath)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(def)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
