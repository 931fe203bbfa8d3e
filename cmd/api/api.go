package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"licensehub/internal/auth"
	"licensehub/internal/email"
	"licensehub/internal/store"
	"licensehub/internal/store/cache"
	"licensehub/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.uber.org/zap"
)

type application struct {
	cfg             config
	logger          *zap.SugaredLogger
	store           *store.Storage
	cacheStore      *cache.Storage
	emailService    *email.Service
	taskDistributor worker.TaskDistributor
	authToken       auth.AuthToken
	emailFlowLimit  *stdlib.Middleware
	wg              sync.WaitGroup
}

type config struct {
	addr           string
	env            string
	apiURL         string
	clientURL      string
	siteName       string
	adminBootstrap string

	db     dbConfig
	redis  redisConfig
	mail   mailConfig
	admin  adminConfig
	stripe stripeConfig
}

type dbConfig struct {
	dsn          string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

type mailConfig struct {
	fromEmail       string
	fromName        string
	smtpAddr        string
	smtpSandboxAddr string
	smtpPort        int
	username        string
	password        string
	isSandbox       bool
	sendTimeout     time.Duration
}

type adminConfig struct {
	email string
	name  string
}

type stripeConfig struct {
	webhookSecret string
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.cfg.clientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheckHandler)

		// Every endpoint in this group ends in an outbound email, so it
		// gets the shared per-IP limit.
		r.Group(func(r chi.Router) {
			r.Use(app.emailFlowLimit.Handler)

			r.Post("/users", app.registerUser)
			r.Put("/users/activate/{token}", app.activateUser)
			r.Post("/users/password-reset", app.forgotPassword)
		})

		r.Post("/payments/stripe/webhook", app.stripeWebhook)

		r.Post("/admin/tokens", app.createAdminToken)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAdmin)

			r.Get("/admin/templates", app.listEmailTemplates)
			r.Post("/admin/templates/test", app.testEmailTemplate)
			r.Post("/admin/emails", app.sendEmail)
			r.Post("/admin/emails/bulk", app.sendBulkEmail)
		})
	})

	return r
}

func (app *application) serve() error {
	srv := &http.Server{
		Addr:    app.cfg.addr,
		Handler: app.routes(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit

		app.logger.Infow("caught signal", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			shutdownError <- err
		}

		app.wg.Wait()
		shutdownError <- nil
	}()

	app.logger.Infow("server has started", "addr", app.cfg.addr, "env", app.cfg.env)
	err := srv.ListenAndServe()

	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.cfg.addr, "env", app.cfg.env)
	return nil
}

func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	app.successResponse(w, http.StatusOK, envelope{
		"status": "available",
		"env":    app.cfg.env,
	})
}
