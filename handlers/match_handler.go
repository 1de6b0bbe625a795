package handlers

import (
	"net/http"

	"github.com/matchwerk/tournament-scheduler/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// ListMatches godoc
// @Summary List the matches of a tournament
// @Tags matches
// @Description Returns the full schedule, group phase and playoffs, ordered by slot.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Matches"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches, "count": len(matches)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatch godoc
// @Summary Get a single match
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID, e.g. group-a-1 or semi1"
// @Success 200 {object} map[string]interface{} "Match"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getStringParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), tournamentID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EnterScore godoc
// @Summary Enter or correct a match result
// @Tags matches
// @Description Stores both scores and runs the playoff hooks: completing the group phase fills the bracket placeholders, a playoff result feeds the next round. The response carries the resolution outcome when pairings changed.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID, e.g. group-a-1 or semi1"
// @Param body body services.EnterScoreInput true "Both scores, zero or positive"
// @Success 200 {object} map[string]interface{} "Updated match and optional resolution"
// @Failure 400 {object} map[string]string "Invalid scores"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 422 {object} map[string]string "Match participants still unresolved"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/matches/{matchID}/score [put]
func (h *MatchHandler) EnterScore(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getStringParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EnterScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.EnterScore(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"match": result.Match}
	if result.Resolution != nil {
		response["resolution"] = result.Resolution
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
