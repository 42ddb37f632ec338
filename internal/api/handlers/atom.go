package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/service"
)

type AtomHandler struct {
	svc *service.KnowledgeService
}

func NewAtomHandler(svc *service.KnowledgeService) *AtomHandler {
	return &AtomHandler{svc: svc}
}

type createNodeRequest struct {
	Type       string             `json:"type"`
	Name       string             `json:"name"`
	TruthValue *domain.TruthValue `json:"tv,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}

type createLinkRequest struct {
	Type       string             `json:"type"`
	Outgoing   []domain.AtomSpec  `json:"outgoing"`
	TruthValue *domain.TruthValue `json:"tv,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}

type listAtomsResponse struct {
	Atoms []domain.AtomView `json:"atoms"`
	Count int               `json:"count"`
}

// CreateNode adds a node, merging truth values with an existing equal node.
// POST /v1/atoms/nodes
func (h *AtomHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, ok := domain.TypeByName(req.Type)
	if !ok || !t.IsNode() {
		writeError(w, http.StatusBadRequest, "type must name a node type")
		return
	}

	h.add(w, domain.AtomSpec{
		Type:       req.Type,
		Name:       req.Name,
		TruthValue: req.TruthValue,
		Metadata:   req.Metadata,
	})
}

// CreateLink adds a link. Children are given inline or as {"ref": id}.
// POST /v1/atoms/links
func (h *AtomHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, ok := domain.TypeByName(req.Type)
	if !ok || !t.IsLink() {
		writeError(w, http.StatusBadRequest, "type must name a link type")
		return
	}

	h.add(w, domain.AtomSpec{
		Type:       req.Type,
		Outgoing:   req.Outgoing,
		TruthValue: req.TruthValue,
		Metadata:   req.Metadata,
	})
}

func (h *AtomHandler) add(w http.ResponseWriter, spec domain.AtomSpec) {
	result, err := h.svc.Add(spec)
	if err != nil {
		writeServiceError(w, err, "failed to add atom")
		return
	}

	status := http.StatusCreated
	if result.Merged {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

func (h *AtomHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := atomIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	atom, err := h.svc.Get(id)
	if err != nil {
		writeServiceError(w, err, "failed to get atom")
		return
	}
	writeJSON(w, http.StatusOK, atom)
}

// LookupNode finds a node by type and name.
// GET /v1/atoms/nodes/lookup?type=ConceptNode&name=Cat
func (h *AtomHandler) LookupNode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("type") == "" {
		writeError(w, http.StatusBadRequest, "type parameter is required")
		return
	}

	atom, err := h.svc.GetNode(q.Get("type"), q.Get("name"))
	if err != nil {
		writeServiceError(w, err, "failed to look up node")
		return
	}
	writeJSON(w, http.StatusOK, atom)
}

// List returns the atoms of one type in insertion order.
// GET /v1/atoms?type=ConceptNode
func (h *AtomHandler) List(w http.ResponseWriter, r *http.Request) {
	typeName := r.URL.Query().Get("type")
	if typeName == "" {
		writeError(w, http.StatusBadRequest, "type parameter is required")
		return
	}

	atoms, err := h.svc.ListByType(typeName)
	if err != nil {
		writeServiceError(w, err, "failed to list atoms")
		return
	}
	writeJSON(w, http.StatusOK, listAtomsResponse{Atoms: atoms, Count: len(atoms)})
}

// Incoming lists the links that contain the atom.
// GET /v1/atoms/{id}/incoming
func (h *AtomHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	id, err := atomIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	links, err := h.svc.Incoming(id)
	if err != nil {
		writeServiceError(w, err, "failed to get incoming links")
		return
	}
	writeJSON(w, http.StatusOK, listAtomsResponse{Atoms: links, Count: len(links)})
}

// SetTruthValue overwrites the atom's truth value.
// PUT /v1/atoms/{id}/tv
func (h *AtomHandler) SetTruthValue(w http.ResponseWriter, r *http.Request) {
	id, err := atomIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	var tv domain.TruthValue
	if err := json.NewDecoder(r.Body).Decode(&tv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	atom, err := h.svc.SetTruthValue(id, tv)
	if err != nil {
		writeServiceError(w, err, "failed to update truth value")
		return
	}
	writeJSON(w, http.StatusOK, atom)
}

func (h *AtomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := atomIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	if err := h.svc.Delete(id); err != nil {
		writeServiceError(w, err, "failed to delete atom")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the space.
// DELETE /v1/atoms
func (h *AtomHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear()
	w.WriteHeader(http.StatusNoContent)
}
