package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/service"
)

type TypeHandler struct {
	svc *service.KnowledgeService
}

func NewTypeHandler(svc *service.KnowledgeService) *TypeHandler {
	return &TypeHandler{svc: svc}
}

type registerTypeRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

type typeResponse struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	Kind   string `json:"kind"`
}

type listTypesResponse struct {
	Types []typeResponse `json:"types"`
	Count int            `json:"count"`
}

func toTypeResponse(t domain.AtomType) typeResponse {
	resp := typeResponse{Name: t.Name(), Kind: t.Kind().String()}
	if t != domain.TypeAtom {
		resp.Parent = t.Parent().Name()
	}
	return resp
}

// List returns every registered atom type.
// GET /v1/types
func (h *TypeHandler) List(w http.ResponseWriter, r *http.Request) {
	all := domain.AllTypes()
	resp := listTypesResponse{Types: make([]typeResponse, 0, len(all)), Count: len(all)}
	for _, t := range all {
		resp.Types = append(resp.Types, toTypeResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Register adds a new atom type under an existing node or link type.
// POST /v1/types
func (h *TypeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.RegisterType(req.Name, req.Parent)
	if err != nil {
		writeServiceError(w, err, "failed to register type")
		return
	}
	writeJSON(w, http.StatusCreated, toTypeResponse(t))
}
