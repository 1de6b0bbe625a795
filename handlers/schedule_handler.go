package handlers

import (
	"net/http"

	"github.com/matchwerk/tournament-scheduler/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

// GenerateSchedule godoc
// @Summary Generate the tournament schedule
// @Tags schedule
// @Description Builds group-phase round robins and the playoff bracket, replacing any previous schedule. Allowed until the first result is entered.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 201 {object} map[string]interface{} "Matches and fairness report"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Schedule locked"
// @Failure 422 {object} map[string]string "Not enough teams"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/schedule [post]
func (h *ScheduleHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scheduleService.Generate(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"schedule": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFairnessReport godoc
// @Summary Analyze schedule fairness
// @Tags schedule
// @Description Recomputes per-team rest, field and home/away statistics over the stored schedule.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Fairness report"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /tournaments/{tournamentID}/schedule/fairness [get]
func (h *ScheduleHandler) GetFairnessReport(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.scheduleService.AnalyzeFairness(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fairness": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
