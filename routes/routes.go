package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/matchwerk/tournament-scheduler/handlers"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Schedule   *handlers.ScheduleHandler
	Match      *handlers.MatchHandler
	Standings  *handlers.StandingsHandler
	Playoff    *handlers.PlayoffHandler
	Snapshot   *handlers.SnapshotHandler
	WebSocket  *handlers.WebSocketHandler
}

// SetupRoutes builds the router: standard chi middleware, CORS for the
// configured origins, swagger UI, the REST tree and the live-update socket.
func SetupRoutes(h Handlers, corsOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}` + "\n"))
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", h.Tournament.CreateTournament)
		r.Get("/", h.Tournament.ListTournaments)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetTournament)
			r.Patch("/", h.Tournament.UpdateTournament)
			r.Delete("/", h.Tournament.DeleteTournament)
			r.Put("/status", h.Tournament.UpdateTournamentStatus)

			r.Post("/teams", h.Team.AddTeam)
			r.Get("/teams", h.Team.ListTeams)

			r.Post("/schedule", h.Schedule.GenerateSchedule)
			r.Get("/schedule/fairness", h.Schedule.GetFairnessReport)

			r.Get("/matches", h.Match.ListMatches)
			r.Get("/matches/{matchID}", h.Match.GetMatch)
			r.Put("/matches/{matchID}/score", h.Match.EnterScore)

			r.Get("/standings", h.Standings.GetStandings)

			r.Get("/playoffs", h.Playoff.GetPlayoffStatus)
			r.Post("/playoffs/resolve", h.Playoff.ResolvePlayoffs)
			r.Post("/playoffs/re-resolve", h.Playoff.ForceReResolvePlayoffs)

			r.Post("/snapshots", h.Snapshot.ExportSnapshot)
		})
	})

	// Team IDs are globally unique, so mutations do not need the tournament
	// prefix.
	router.Route("/teams", func(r chi.Router) {
		r.Put("/{teamID}", h.Team.RenameTeam)
		r.Delete("/{teamID}", h.Team.RemoveTeam)
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	return router
}
