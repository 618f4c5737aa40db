package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/aussiebroadwan/tnp/internal/portal/blob/drivers/memory"
	"github.com/aussiebroadwan/tnp/internal/portal/blob/drivers/s3"
	httpapi "github.com/aussiebroadwan/tnp/internal/portal/http"
	"github.com/aussiebroadwan/tnp/internal/portal/mail"
	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/internal/portal/store/drivers/postgres"
	"github.com/aussiebroadwan/tnp/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/tnp/pkg/cryptox"
	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/aussiebroadwan/tnp/pkg/jwtx"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	portalName = "TnP Portal"
)

// Application encapsulates the portal with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	blobs    blob.Store
	mailer   mail.Sender
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier

	// Services
	authService         *service.AuthService
	provisioningService *service.ProvisioningService
	mediaService        *service.MediaService
	profileService      *service.ProfileService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tnp-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initTokens(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initBlobs(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("portal starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"db_driver", app.cfg.DatabaseDriver,
		"blob_driver", app.cfg.BlobDriver,
		"mail_driver", app.cfg.MailDriver,
		"provisioning_enabled", app.cfg.AdminToken != "",
		"token_alg", app.signer.Alg(),
		"token_issuer", app.signer.Issuer(),
		"token_ttl", app.signer.TTL().String(),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// initTokens builds the HS256 signer and verifier. Outside dev the secret
// must be configured; dev falls back to a random per-process secret.
func (app *Application) initTokens() error {
	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		generated, err := cryptox.GenerateToken(cryptox.SecretSize)
		if err != nil {
			return fmt.Errorf("failed to generate dev signing secret: %w", err)
		}
		secret = []byte(generated)
		app.logger.Warn("AUTH_JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	signer, err := jwtx.NewHS256Signer(secret, app.cfg.Issuer, app.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier, err := jwtx.NewHS256Verifier(secret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.signer = signer
	app.verifier = verifier
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseDSN)
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseDSN)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initBlobs(ctx context.Context) error {
	if app.cfg.BlobDriver != "s3" {
		app.logger.Warn("using in-memory blob store; uploads are lost on restart")
		app.blobs = memory.New()
		return nil
	}

	st, err := s3.New(ctx, s3.Config{
		Bucket:       app.cfg.S3Bucket,
		Region:       app.cfg.S3Region,
		AccessKey:    app.cfg.S3AccessKey,
		SecretKey:    app.cfg.S3SecretKey,
		BaseEndpoint: app.cfg.S3Endpoint,
		UsePathStyle: app.cfg.S3UsePathStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	if app.cfg.S3CreateBucket {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := st.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	app.blobs = st
	return nil
}

func (app *Application) initMailer() error {
	if app.cfg.MailDriver != "brevo" {
		app.logger.Warn("credential emails are logged, not sent")
		app.mailer = mail.LogSender{}
		return nil
	}

	sender, err := mail.NewBrevoSender(mail.BrevoConfig{
		APIKey:      app.cfg.BrevoAPIKey,
		SenderName:  app.cfg.MailSenderName,
		SenderEmail: app.cfg.MailSenderEmail,
		Portal:      portalName,
		Team:        app.cfg.MailSenderName,
		Timeout:     app.cfg.MailTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mail sender: %w", err)
	}
	app.mailer = sender
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	hasher := cryptox.NewPasswordHasher(app.cfg.BcryptCost)

	app.authService = &service.AuthService{
		Store:                   app.db,
		Hasher:                  hasher,
		Tokens:                  app.signer,
		MinPasswordLength:       app.cfg.MinPasswordLength,
		RevealUnknownIdentifier: app.cfg.RevealUnknownIdentifier,
	}
	app.provisioningService = &service.ProvisioningService{
		Store:           app.db,
		Hasher:          hasher,
		Mailer:          app.mailer,
		PasswordCharset: app.cfg.ProvisionPasswordCharset,
		PasswordLength:  app.cfg.ProvisionPasswordLength,
	}
	app.mediaService = &service.MediaService{
		Blobs:         app.blobs,
		Store:         app.db,
		PublicBaseURL: app.cfg.PublicBaseURL,
	}
	app.profileService = &service.ProfileService{
		Store: app.db,
		Media: app.mediaService,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	cors := httpx.DefaultCORS()
	cors.AllowedOrigins = app.cfg.CORSOrigins

	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.blobs,
		app.logger,
		cors,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.ProvisioningService = app.provisioningService
	router.ProfileService = app.profileService
	router.MediaService = app.mediaService
	router.AdminToken = app.cfg.AdminToken
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
