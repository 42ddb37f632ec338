package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SnapshotHandler struct {
	svc *service.KnowledgeService
}

func NewSnapshotHandler(svc *service.KnowledgeService) *SnapshotHandler {
	return &SnapshotHandler{svc: svc}
}

type createSnapshotRequest struct {
	Label string `json:"label,omitempty"`
}

type snapshotResponse struct {
	ID        string           `json:"id"`
	Label     string           `json:"label,omitempty"`
	NodeCount int              `json:"node_count"`
	LinkCount int              `json:"link_count"`
	CreatedAt string           `json:"created_at"`
	Snapshot  *domain.Snapshot `json:"snapshot,omitempty"`
}

type listSnapshotsResponse struct {
	Snapshots []snapshotResponse `json:"snapshots"`
	Count     int                `json:"count"`
}

func toSnapshotResponse(s *domain.ArchivedSnapshot, withPayload bool) snapshotResponse {
	resp := snapshotResponse{
		ID:        s.ID.String(),
		Label:     s.Label,
		NodeCount: s.NodeCount,
		LinkCount: s.LinkCount,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	if withPayload {
		resp.Snapshot = s.Snapshot
	}
	return resp
}

// Create archives the current contents of the space.
// POST /v1/snapshots
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSnapshotRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	snap, err := h.svc.SaveSnapshot(r.Context(), req.Label)
	if err != nil {
		writeServiceError(w, err, "failed to save snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotResponse(snap, false))
}

// GET /v1/snapshots?limit=20
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	snaps, err := h.svc.ListSnapshots(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err, "failed to list snapshots")
		return
	}

	resp := listSnapshotsResponse{Snapshots: make([]snapshotResponse, 0, len(snaps)), Count: len(snaps)}
	for i := range snaps {
		resp.Snapshots = append(resp.Snapshots, toSnapshotResponse(&snaps[i], false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SnapshotHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	snap, err := h.svc.GetSnapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get snapshot")
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(snap, true))
}
