package handlers

import (
	"net/http"

	"github.com/matchwerk/tournament-scheduler/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// AddTeam godoc
// @Summary Add a team
// @Tags teams
// @Description Registers a team for a tournament that is still in setup.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.TeamInput true "Team name and optional group"
// @Success 201 {object} map[string]interface{} "Created team"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Roster locked or name taken"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.AddTeam(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams godoc
// @Summary List the teams of a tournament
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Teams"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams, "count": len(teams)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type renameTeamInput struct {
	Name string `json:"name"`
}

// RenameTeam godoc
// @Summary Rename a team
// @Tags teams
// @Description Changes the display name. Safe at any stage because matches reference teams by ID.
// @Accept json
// @Produce json
// @Param teamID path string true "Team ID"
// @Param body body renameTeamInput true "New name"
// @Success 200 {object} map[string]interface{} "Updated team"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Team not found"
// @Failure 409 {object} map[string]string "Name taken"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /teams/{teamID} [put]
func (h *TeamHandler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getStringParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input renameTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.Rename(r.Context(), teamID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeam godoc
// @Summary Remove a team
// @Tags teams
// @Description Deletes a team while the tournament is still in setup.
// @Param teamID path string true "Team ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Team not found"
// @Failure 409 {object} map[string]string "Roster locked"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /teams/{teamID} [delete]
func (h *TeamHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getStringParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.Remove(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
