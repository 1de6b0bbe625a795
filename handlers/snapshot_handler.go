package handlers

import (
	"net/http"

	"github.com/matchwerk/tournament-scheduler/services"
)

type SnapshotHandler struct {
	snapshotService services.SnapshotService
}

func NewSnapshotHandler(ss services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: ss}
}

// ExportSnapshot godoc
// @Summary Export a tournament snapshot
// @Tags snapshots
// @Description Uploads the tournament aggregate with its current standings as a timestamped JSON document to object storage.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 201 {object} map[string]interface{} "Snapshot location"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 501 {object} map[string]string "Snapshot storage not configured"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/snapshots [post]
func (h *SnapshotHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.snapshotService.Export(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"snapshot": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
