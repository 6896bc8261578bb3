package commands

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/flow/internal/app"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
)

// problem is an RFC 7807 error body.
type problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

type server struct {
	app *app.App
	log ports.Logger
}

// newHandler serves the read-only query surface and the cache metrics.
func newHandler(a *app.App, registry *prometheus.Registry, log ports.Logger) http.Handler {
	s := &server{app: a, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /definitions", s.handleLookup)
	mux.HandleFunc("GET /definitions/{id}", s.handleDefinition)
	mux.HandleFunc("GET /definitions/{id}/model", s.handleModel)
	mux.HandleFunc("GET /definitions/{id}/metadata", s.handleMetadata)
	mux.HandleFunc("GET /deployments/{id}/definitions", s.handleDeploymentDefinitions)
	return mux
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, map[string]string{"status": "ok"})
}

// handleLookup resolves ?key=K[&version=N][&tenant=T].
func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, tenant := q.Get("key"), q.Get("tenant")

	var (
		def domain.Definition
		err error
	)
	if raw := q.Get("version"); raw != "" {
		version, convErr := strconv.Atoi(raw)
		if convErr != nil {
			s.fail(w, r, zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "version is not a number"), "version", raw))
			return
		}
		def, err = s.app.Version(r.Context(), key, version, tenant)
	} else {
		def, err = s.app.Latest(r.Context(), key, tenant)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, viewDefinition(def))
}

func (s *server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := s.app.Definition(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, viewDefinition(def))
}

func (s *server) handleModel(w http.ResponseWriter, r *http.Request) {
	m, err := s.app.Model(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, viewModel(m))
}

func (s *server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	info, err := s.app.Metadata(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, viewMetadata(info))
}

func (s *server) handleDeploymentDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := s.app.Definitions(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, viewDefinitions(defs))
}

func (s *server) respond(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, v); err != nil {
		s.log.Error(zerr.Wrap(err, "failed to encode response"), "path", r.URL.Path)
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error(err, "path", r.URL.Path)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	body := problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.URL.Path,
	}
	if encErr := writeJSON(w, body); encErr != nil {
		s.log.Error(zerr.Wrap(encErr, "failed to encode problem"), "path", r.URL.Path)
	}
}

func statusOf(err error) int {
	switch domain.Classify(err) {
	case domain.OutcomeOK:
		return http.StatusOK
	case domain.OutcomeNotFound:
		return http.StatusNotFound
	case domain.OutcomeInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
