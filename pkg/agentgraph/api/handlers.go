package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/document"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/observability"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CatalogResponse is the body of GET /catalog.
type CatalogResponse struct {
	Templates  []catalog.NodeTemplate `json:"templates"`
	Categories []CategoryResponse     `json:"categories"`
}

// CategoryResponse groups template kinds for the palette.
type CategoryResponse struct {
	Name  string   `json:"name"`
	Kinds []string `json:"kinds"`
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getCatalog handles GET /catalog
func (s *Server) getCatalog(w http.ResponseWriter, _ *http.Request) {
	resp := CatalogResponse{
		Templates:  s.catalog.Templates(),
		Categories: []CategoryResponse{},
	}
	for _, c := range s.catalog.ByCategory() {
		cr := CategoryResponse{Name: c.Name}
		for _, t := range c.Templates {
			cr.Kinds = append(cr.Kinds, t.Kind)
		}
		resp.Categories = append(resp.Categories, cr)
	}
	respondJSON(w, http.StatusOK, resp)
}

// getSchema handles GET /schemas/{kind}. Unknown kinds get the generic
// schema rather than a 404, matching how the editor treats them.
func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	respondJSON(w, http.StatusOK, s.schemas.Resolve(kind))
}

// listGraphs handles GET /graphs
func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, r, "list graphs", err)
		return
	}
	respondJSON(w, http.StatusOK, infos)
}

// getGraph handles GET /graphs/{graphID}
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	data, err := s.store.Load(r.Context(), graphID)
	if err != nil {
		s.storeError(w, r, "load graph", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// putGraph handles PUT /graphs/{graphID}. The document is validated and
// stored in canonical form: dangling edges are dropped and reported.
func (s *Server) putGraph(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		respondError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	doc, err := document.Unmarshal(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	graph, report, err := document.Deserialize(doc, s.catalog)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, document.ErrUnsupportedVersion) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}

	data, err := document.Marshal(document.Serialize(graph))
	if err != nil {
		s.storeError(w, r, "encode graph", err)
		return
	}
	info, err := s.store.Save(r.Context(), graphID, data)
	if err != nil {
		s.storeError(w, r, "save graph", err)
		return
	}

	if len(report.Quarantined) > 0 {
		w.Header().Set(HeaderQuarantined, strings.Join(report.Quarantined, ","))
	}
	if len(report.DroppedEdges) > 0 {
		w.Header().Set(HeaderDroppedEdges, strings.Join(report.DroppedEdges, ","))
	}
	w.Header().Set(HeaderRevision, strconv.FormatInt(info.Revision, 10))
	respondJSON(w, http.StatusOK, info)
}

// deleteGraph handles DELETE /graphs/{graphID}
func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "graphID")); err != nil {
		s.storeError(w, r, "delete graph", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, persist.ErrNotFound) {
		respondError(w, http.StatusNotFound, "graph not found")
		return
	}
	if s.logger != nil {
		s.logger.ErrorContext(r.Context(), op+" failed",
			slog.String(observability.KeyGraphID, chi.URLParam(r, "graphID")),
			slog.String("error", err.Error()),
		)
	}
	respondError(w, http.StatusInternalServerError, op+" failed")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
