package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/photon00/twstock-correlation/internal/analysis"
	"github.com/photon00/twstock-correlation/internal/catalog"
)

// Server exposes the ranking and comparison tables as a JSON API.
type Server struct {
	Engine       *analysis.Engine
	Catalog      catalog.Catalog
	DefaultLimit int
}

// NewServer creates a new Server.
func NewServer(engine *analysis.Engine, cat catalog.Catalog, defaultLimit int) *Server {
	return &Server{Engine: engine, Catalog: cat, DefaultLimit: defaultLimit}
}

// Routes builds the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/groups", s.handleGroups)
		r.Get("/instruments", s.handleInstruments)
		r.Get("/correlations", s.handleCorrelations)
		r.Get("/compare", s.handleCompare)
	})
	return r
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": msg})
}
