package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"gym-app-go/internal/config"
	"gym-app-go/internal/monitoring"
	"gym-app-go/internal/transport/httpserver/handler"
	authmw "gym-app-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.SessionAuth, csrfKey []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(handlers.Metrics.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(monitoring.SentryMiddleware())
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Get("/health", handlers.Health)
	if handlers.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", handlers.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(authmw.CSRF(cfg.CSRF, csrfKey, cfg.Session.CookieSecure))
		r.Use(auth.Middleware)

		r.Get("/", handlers.Root)
		r.Get("/index", handlers.Index)
		r.Post("/login", handlers.Login)
		r.Get("/logout", handlers.Logout)

		r.Get("/buy_pass", handlers.BuyPassForm)
		r.Post("/buy_pass", handlers.BuyPass)
		r.Get("/success", handlers.Success)

		r.Get("/zajecia", handlers.ListClasses)
		r.Get("/zajecia/szukaj", handlers.SearchClasses)
		r.Get("/instruktorzy", handlers.ListInstructors)
		r.Get("/grafik", handlers.Schedule)

		r.Get("/raport", handlers.ListReports)
		r.Get("/raport/{name}", handlers.Report)
		r.Post("/raport/{name}", handlers.Report)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireClient)

			r.Get("/dashboard", handlers.Dashboard)
			r.Post("/rezygnacja", handlers.CancelMembership)

			r.Post("/zapisz_sie_na_zajecia", handlers.Enroll)
			r.Get("/wypisz_sie", handlers.Unenroll)

			r.Get("/rezerwacja_sprzetu", handlers.ReservationForm)
			r.Post("/rezerwacja_sprzetu", handlers.Reserve)
			r.Get("/cancel_rezerwacja", handlers.CancelReservation)

			r.Post("/ocena_instruktora", handlers.RateInstructor)
		})
	})

	return r
}
