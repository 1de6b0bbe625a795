package handlers

import (
	"net/http"
	"strconv"

	"github.com/matchwerk/tournament-scheduler/models"
	"github.com/matchwerk/tournament-scheduler/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// CreateTournament godoc
// @Summary Create a tournament
// @Tags tournaments
// @Description Creates a tournament in setup status, optionally with its initial teams.
// @Accept json
// @Produce json
// @Param body body services.CreateTournamentInput true "Tournament data"
// @Success 201 {object} map[string]interface{} "Created tournament"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Name already taken"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments [post]
func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTournament godoc
// @Summary Get a tournament
// @Tags tournaments
// @Description Returns the tournament with its teams, matches and parsed settings.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Tournament aggregate"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTournaments godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Param status query string false "Filter by status (setup, scheduled, in_progress, completed)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{} "Tournaments"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments [get]
func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	var status *models.TournamentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TournamentStatus(raw)
		status = &s
	}
	limit := parseQueryInt(r, "limit", 50)
	offset := parseQueryInt(r, "offset", 0)

	tournaments, err := h.tournamentService.List(r.Context(), status, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments, "count": len(tournaments)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTournament godoc
// @Summary Update a tournament
// @Tags tournaments
// @Description Updates name, group or field count and settings. Layout and settings are only writable while the tournament is in setup.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.UpdateTournamentInput true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated tournament"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Tournament locked or name conflict"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID} [patch]
func (h *TournamentHandler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	id, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateStatusInput struct {
	Status models.TournamentStatus `json:"status"`
}

// UpdateTournamentStatus godoc
// @Summary Change tournament status
// @Tags tournaments
// @Description Moves the tournament along setup, scheduled, in_progress, completed. Only forward transitions are allowed.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body updateStatusInput true "Target status"
// @Success 200 {object} map[string]interface{} "Updated tournament"
// @Failure 400 {object} map[string]string "Invalid status or transition"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/status [put]
func (h *TournamentHandler) UpdateTournamentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateStatusInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTournament godoc
// @Summary Delete a tournament
// @Tags tournaments
// @Description Removes the tournament with its teams and matches.
// @Param tournamentID path string true "Tournament ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
