package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/config"
	"github.com/avogel/juryvote/internal/handlers"
	"github.com/avogel/juryvote/internal/live"
	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/repository"
	"github.com/avogel/juryvote/internal/services"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *live.Hub
	server   *http.Server
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, adminAuth *auth.Admin) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	hub := live.New(log)
	hub.Start()

	categoryService := services.NewCategoryService(log, repo, hub)
	candidateService := services.NewCandidateService(log, repo)
	juryService := services.NewJuryService(log, repo, cfg.BaseURL)
	votingService := services.NewVotingService(log, repo, hub)
	resultsService := services.NewResultsService(log, repo)

	h := handlers.New(
		categoryService,
		candidateService,
		juryService,
		votingService,
		resultsService,
		adminAuth,
		hub,
		log,
	)

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
		hub:      hub,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails. On cancellation it drains in-flight requests, stops the live hub and
// closes the database.
func (a *App) Run(ctx context.Context, addr string) error {
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.ListenAndServe()
	}()

	a.log.Info("Server starting", "addr", addr)

	select {
	case err := <-serverErr:
		a.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.server.Shutdown(shutdownCtx)

	a.Close()
	a.log.Info("Server stopped")
	return err
}

// Close releases app resources
func (a *App) Close() {
	a.hub.Shutdown()
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Failed to close database", "error", err)
	}
}
