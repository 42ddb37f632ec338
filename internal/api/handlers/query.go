package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/service"
)

type QueryHandler struct {
	svc *service.KnowledgeService
}

func NewQueryHandler(svc *service.KnowledgeService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type matchRequest struct {
	Pattern domain.AtomSpec `json:"pattern"`
}

type matchResponse struct {
	Results []service.Grounding `json:"results"`
	Count   int                 `json:"count"`
}

// Match grounds a pattern against the space.
// POST /v1/query/match
func (h *QueryHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.svc.Match(req.Pattern)
	if err != nil {
		writeServiceError(w, err, "failed to match pattern")
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Results: results, Count: len(results)})
}

// Query grounds a pattern and filters the groundings by constraints.
// POST /v1/query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req service.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.svc.Query(req)
	if err != nil {
		writeServiceError(w, err, "failed to run query")
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Results: results, Count: len(results)})
}
