package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/atomspace/internal/service"
)

type SpaceHandler struct {
	svc *service.KnowledgeService
}

func NewSpaceHandler(svc *service.KnowledgeService) *SpaceHandler {
	return &SpaceHandler{svc: svc}
}

// Stats returns atom counts by kind and type.
// GET /v1/space/stats
func (h *SpaceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// Export returns every atom as node and link records.
// GET /v1/space/export
func (h *SpaceHandler) Export(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Export())
}
