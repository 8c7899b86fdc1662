package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/veladora/arcana-api/internal/config"
	"github.com/veladora/arcana-api/internal/generation"
	"github.com/veladora/arcana-api/internal/platform/gemini"
	"github.com/veladora/arcana-api/internal/platform/googletts"
	"github.com/veladora/arcana-api/internal/platform/postgres"
	"github.com/veladora/arcana-api/internal/service"
	"github.com/veladora/arcana-api/internal/service/auth"
	"github.com/veladora/arcana-api/internal/speech"
	"github.com/veladora/arcana-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	readingStore store.ReadingStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.Generator
	synthesizer      speech.Synthesizer
	readingService   *service.ReadingService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.readingStore = postgres.NewPostgresReadingStore(db, logger)

	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "reading_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reading generator: %w", err)
	}
	logger.Info("reading generator initialized",
		"model", cfg.LLM.ModelName,
		"on_invalid_output", cfg.LLM.OnInvalidOutput)

	app.synthesizer, err = googletts.NewSynthesizer(
		cfg.TTS,
		logger.With("component", "speech_synthesizer"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech synthesizer: %w", err)
	}

	app.readingService = service.NewReadingService(app.generator, app.readingStore, logger)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
