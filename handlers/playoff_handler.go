package handlers

import (
	"net/http"

	"github.com/matchwerk/tournament-scheduler/services"
)

type PlayoffHandler struct {
	playoffService services.PlayoffService
}

func NewPlayoffHandler(ps services.PlayoffService) *PlayoffHandler {
	return &PlayoffHandler{playoffService: ps}
}

// GetPlayoffStatus godoc
// @Summary Get the bracket status
// @Tags playoffs
// @Description Reports whether the group phase is complete, how many playoff slots are unresolved and whether resolved pairings drifted from the current standings.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Playoff status"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/playoffs [get]
func (h *PlayoffHandler) GetPlayoffStatus(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.playoffService.Status(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoffs": status}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolvePlayoffs godoc
// @Summary Resolve playoff pairings
// @Tags playoffs
// @Description Fills the bracket placeholders from the final group standings. Requires a finished group phase and at least one unresolved slot.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Resolution result"
// @Failure 404 {object} map[string]string "Tournament or bracket not found"
// @Failure 409 {object} map[string]string "Group phase unfinished or nothing to resolve"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/playoffs/resolve [post]
func (h *PlayoffHandler) ResolvePlayoffs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.playoffService.Resolve(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolution": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ForceReResolvePlayoffs godoc
// @Summary Re-resolve playoff pairings
// @Tags playoffs
// @Description Recomputes every group-derived pairing from the current standings after a group result was corrected. Overwritten matches lose their scores.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Resolution result"
// @Failure 404 {object} map[string]string "Tournament or bracket not found"
// @Failure 409 {object} map[string]string "Group phase unfinished"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/playoffs/re-resolve [post]
func (h *PlayoffHandler) ForceReResolvePlayoffs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.playoffService.ForceReResolve(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolution": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
