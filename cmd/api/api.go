package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitclub/docs" // required to generate swagger docs
	"fitclub/internal/auth"
	"fitclub/internal/domain/storage"
	"fitclub/internal/mailer"
	"fitclub/internal/notifycenter"
	"fitclub/internal/ratelimiter"
	"fitclub/internal/reviews"
	"fitclub/internal/toasts"
	"fitclub/internal/watcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	reviewStores  *reviews.Manager
	center        *notifycenter.Center
	toasts        *toasts.Hub
	watchers      []*watcher.Watcher
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	mail        mailConfig
	auth        authConfig
	feed        feedConfig
	rateLimiter ratelimiter.Config
	venueSalt   string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

type feedConfig struct {
	channel string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Request contexts are capped at 60s; SSE clients simply reconnect
	// when their stream hits the cap.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", app.listVenuesHandler)
			r.With(app.AuthTokenMiddleware, app.RequireRole("admin")).Post("/", app.createVenueHandler)

			r.Route("/{venueCode}", func(r chi.Router) {
				r.Get("/", app.getVenueHandler)
				r.Get("/reviews", app.getVenueReviewsHandler)
				r.With(app.AuthTokenMiddleware).Post("/reviews", app.createVenueReviewHandler)
				r.With(app.AuthTokenMiddleware, app.RequireRole("admin")).
					Delete("/reviews/{reviewID}", app.deleteVenueReviewHandler)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireRole("admin"))

			r.Get("/users", app.listUsersHandler)
			r.Patch("/users/{userID}/role", app.updateUserRoleHandler)
			r.Patch("/users/{userID}/block", app.setUserBlockedHandler)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireRole("admin"))

			r.Get("/", app.listNotificationsHandler)
			r.Patch("/read-all", app.markAllNotificationsReadHandler)
			r.Patch("/{notificationID}/read", app.markNotificationReadHandler)
			r.Delete("/{notificationID}", app.removeNotificationHandler)
		})

		r.With(app.AuthTokenMiddleware, app.RequireRole("admin")).Get("/events", app.toastStreamHandler)

		r.Route("/push-tokens", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.Post("/", app.registerPushTokenHandler)
			r.Delete("/", app.removePushTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		for _, w := range app.watchers {
			w.Stop()
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
