package handlers

import (
	"net/http"

	"github.com/matchwerk/tournament-scheduler/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandings godoc
// @Summary Get the group tables
// @Tags standings
// @Description Returns the current table of every group, or of a single group when the group query parameter is set. Standings are derived from stored results on every call.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param group query string false "Single group key, e.g. A"
// @Success 200 {object} map[string]interface{} "Standings"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/standings [get]
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if group := r.URL.Query().Get("group"); group != "" {
		rows, err := h.standingsService.ForGroup(r.Context(), tournamentID, group)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	byGroup, err := h.standingsService.ByGroup(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": byGroup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
