package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/tours"
	"github.com/FACorreiaa/go-trip-planner/internal/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/search"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlannerHandler planner.Handler
	SearchHandler  search.Handler
	AuthHandler    auth.Handler
	ToursHandler   tours.Handler
}

// SetupRouter initializes and configures the engine's UI-facing router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// The SPA runs on a dev-server origin, so CORS is required even though
	// both ends live on the same machine.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.LoginHandler)
			r.Post("/register", cfg.AuthHandler.RegisterHandler)
			r.Post("/logout", cfg.AuthHandler.LogoutHandler)
			r.Get("/session", cfg.AuthHandler.SessionHandler)
			r.Get("/me", cfg.AuthHandler.CurrentUserHandler)
		})

		r.Route("/itinerary", func(r chi.Router) {
			r.Get("/", cfg.PlannerHandler.GetStateHandler)
			r.Delete("/", cfg.PlannerHandler.ClearHandler)
			r.Put("/dates", cfg.PlannerHandler.SetDatesHandler)
			r.Put("/settings", cfg.PlannerHandler.UpdateSettingsHandler)
			r.Get("/days", cfg.PlannerHandler.GetDaysHandler)
			r.Post("/save", cfg.PlannerHandler.SaveHandler)
			r.Post("/stops", cfg.PlannerHandler.AddStopHandler)
			r.Post("/stops/reorder", cfg.PlannerHandler.ReorderStopsHandler)
			r.Delete("/stops/{stopID}", cfg.PlannerHandler.RemoveStopHandler)
			r.Patch("/stops/{stopID}/duration", cfg.PlannerHandler.UpdateStopDurationHandler)
		})

		r.Route("/search", func(r chi.Router) {
			r.Post("/", cfg.SearchHandler.RunSearchHandler)
			r.Delete("/", cfg.SearchHandler.ClearHandler)
			r.Get("/results", cfg.SearchHandler.GetResultsHandler)
			r.Patch("/filters", cfg.SearchHandler.UpdateFiltersHandler)
			r.Delete("/filters", cfg.SearchHandler.ResetFiltersHandler)
			r.Put("/sort", cfg.SearchHandler.SetSortHandler)
			r.Put("/page", cfg.SearchHandler.SetPageHandler)
		})

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", cfg.ToursHandler.ListToursHandler)
			r.Get("/{tourID}", cfg.ToursHandler.GetTourHandler)
			r.Post("/{tourID}/join", cfg.ToursHandler.JoinTourHandler)
			r.Delete("/{tourID}/join", cfg.ToursHandler.CancelTourHandler)
		})

		r.Get("/local-guides", cfg.ToursHandler.ListLocalGuidesHandler)
	})

	return r
}
