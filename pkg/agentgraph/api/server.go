// Package api serves node catalogs, config schemas and saved graph
// documents over HTTP.
//
// Routes:
//
//	GET    /health
//	GET    /catalog
//	GET    /schemas/{kind}
//	GET    /graphs
//	GET    /graphs/{graphID}
//	PUT    /graphs/{graphID}
//	DELETE /graphs/{graphID}
//
// Graph IDs are UUIDs. A PUT accepts nodes of unknown kinds and lists them
// in the X-Quarantined-Nodes response header.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
)

// DefaultMaxBodyBytes caps the size of an uploaded graph document.
const DefaultMaxBodyBytes = 4 << 20

// Response headers set by PUT /graphs/{graphID}.
const (
	HeaderQuarantined  = "X-Quarantined-Nodes"
	HeaderDroppedEdges = "X-Dropped-Edges"
	HeaderRevision     = "X-Graph-Revision"
)

// Server is the HTTP front end over a persist.Store.
type Server struct {
	store        persist.Store
	catalog      *catalog.Catalog
	schemas      *schema.Registry
	logger       *slog.Logger
	maxBodyBytes int64
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog sets the node catalog. Defaults to catalog.Default().
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *Server) {
		if cat != nil {
			s.catalog = cat
		}
	}
}

// WithSchemas sets the schema registry. Defaults to schema.DefaultRegistry().
func WithSchemas(reg *schema.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.schemas = reg
		}
	}
}

// WithLogger sets the request logger. Nil disables request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxBodyBytes caps uploaded documents.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer builds the router.
func NewServer(store persist.Store, opts ...Option) *Server {
	s := &Server{
		store:        store,
		catalog:      catalog.Default(),
		schemas:      schema.DefaultRegistry(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	router.Get("/health", s.health)
	router.Get("/catalog", s.getCatalog)
	router.Get("/schemas/{kind}", s.getSchema)

	router.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.listGraphs)
		r.Route("/{graphID}", func(r chi.Router) {
			r.Use(requireUUID("graphID"))
			r.Get("/", s.getGraph)
			r.Put("/", s.putGraph)
			r.Delete("/", s.deleteGraph)
		})
	})
	return router
}
