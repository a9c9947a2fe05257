package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/RobBrazier/audiodrop/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if config.LogRequests() {
		r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
			Level:         slog.LevelInfo,
			Schema:        httplog.SchemaOTEL,
			RecoverPanics: true,
		}))
	} else {
		r.Use(middleware.Recoverer)
	}
	r.Use(middleware.Heartbeat("/up"))

	MountStatic(r)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/feed", s.FeedHandler)
		r.Get("/feed.{format:rss|atom|json}", s.FeedHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.codec.Middleware)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/explore", http.StatusFound)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Get("/explore", s.ExploreHandler)
			r.Get("/explore/listings", s.ListingsHandler)
			r.Get("/explore/status", s.StatusHandler)
			r.Get("/owned/{id}", s.OwnedHandler)
			r.Post("/theme", s.ThemeHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(10, 10*time.Second))
			// bounded by purchaseWait in the handler so it can still answer
			r.Post("/explore/purchase/{id}", s.PurchaseHandler)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(30 * time.Second))
				r.Post("/wallet/connect", s.ConnectHandler)
				r.Post("/wallet/disconnect", s.DisconnectHandler)
			})
		})
	})

	return r
}
