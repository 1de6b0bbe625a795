package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/matchwerk/tournament-scheduler/schedule"
	"github.com/matchwerk/tournament-scheduler/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers enforce CORS on the upgrade request; scoreboard clients
	// connect from arbitrary venue networks, so the origin stays open.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub               *schedule.Hub
	tournamentService services.TournamentService
	log               *slog.Logger
}

func NewWebSocketHandler(hub *schedule.Hub, ts services.TournamentService, log *slog.Logger) *WebSocketHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		log:               log,
	}
}

// ServeWs godoc
// @Summary Subscribe to tournament live updates
// @Tags live
// @Description Upgrades to a WebSocket that streams schedule, score, standings and playoff events of one tournament.
// @Param tournamentID path string true "Tournament ID"
// @Success 101 "Switching protocols"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Router /ws/tournaments/{tournamentID} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Reject rooms for tournaments that do not exist; otherwise a typo
	// subscribes a client to a room that never receives anything.
	if _, err := h.tournamentService.GetByID(r.Context(), tournamentID); err != nil {
		if errors.Is(err, services.ErrTournamentNotFound) {
			notFoundResponse(w, r)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		h.log.Warn("ws upgrade failed",
			slog.String("tournament_id", tournamentID),
			slog.Any("error", err))
		return
	}

	client := &schedule.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: schedule.RoomID(tournamentID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.log.Debug("ws client connected", slog.String("tournament_id", tournamentID))
}
