package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/smashpoint/badminton-league/handlers"
	"github.com/smashpoint/badminton-league/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	venueHandler *handlers.VenueHandler,
	statsHandler *handlers.StatsHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Live score feed; listen-only, no token required.
	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator([]byte(jwtSecret)))

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.CreateTeam)
			r.Get("/", teamHandler.ListMyTeams)
			r.Post("/join", teamHandler.JoinTeam)

			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", teamHandler.GetTeam)
				r.Get("/members", teamHandler.ListMembers)
				r.Patch("/members/{memberID}", teamHandler.UpdateMemberRole)
				r.Delete("/members/{memberID}", teamHandler.RemoveMember)
				r.Get("/players", playerHandler.ListTeamPlayers)
				r.Get("/matches", matchHandler.ListTeamMatches)
				r.Get("/venues", venueHandler.ListTeamVenues)
				r.Get("/stats", statsHandler.GetTeamStats)
				r.Get("/dashboard", statsHandler.GetTeamDashboard)
			})
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", playerHandler.GetPlayer)
			r.Patch("/", playerHandler.UpdatePlayer)
			r.Post("/avatar", playerHandler.UploadAvatar)
			r.Put("/availability", availabilityHandler.SetAvailability)
			r.Get("/availability", availabilityHandler.ListPlayerAvailability)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", matchHandler.CreateMatch)

			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", matchHandler.GetMatch)
				r.Patch("/", matchHandler.UpdateMatch)
				r.Delete("/", matchHandler.DeleteMatch)
				r.Post("/score", matchHandler.RecordScore)
				r.Post("/comments", matchHandler.AddComment)
			})
		})

		r.Delete("/comments/{commentID}", matchHandler.DeleteComment)

		r.Post("/venues", venueHandler.CreateVenue)
		r.Put("/venues/{venueID}", venueHandler.UpdateVenue)
		r.Delete("/venues/{venueID}", venueHandler.DeleteVenue)
	})
}
