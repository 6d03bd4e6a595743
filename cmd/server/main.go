// @title fedauth API
// @version 1.0
// @description Federated Google and Apple sign-in.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fedauth/internal/auth/apple"
	"fedauth/internal/auth/google"
	"fedauth/internal/auth/jwks"
	"fedauth/internal/config"
	"fedauth/internal/domain"
	"fedauth/internal/email/noop"
	"fedauth/internal/email/ses"
	"fedauth/internal/handler"
	"fedauth/internal/logger"
	"fedauth/internal/port"
	"fedauth/internal/repository/postgres"
	"fedauth/internal/repository/redis"
	"fedauth/internal/router"
	"fedauth/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// A missing .env file is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	identityRepo := postgres.NewIdentityRepo(db)

	revocations, closeRevocations, err := newRevocationStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeRevocations()

	verifiers, err := newVerifiers(cfg)
	if err != nil {
		return err
	}

	emailSender, err := newEmailSender(ctx, cfg.Email)
	if err != nil {
		return err
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, revocations, cfg.JWT)
	resolver := service.NewAccountResolver(userRepo, identityRepo)
	socialAuthSvc := service.NewSocialAuthService(verifiers, resolver, userRepo, authSvc, emailSender)
	userSvc := service.NewUserService(userRepo)

	// Initialize handlers
	respond := handler.Responder{Verbose: cfg.Server.VerboseErrors && cfg.Server.IsDevelopment()}
	authH := handler.NewAuthHandler(socialAuthSvc, authSvc, respond)
	userH := handler.NewUserHandler(userSvc, respond)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, authSvc, authH, userH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newVerifiers(cfg *config.Config) (map[domain.AuthProvider]port.SocialTokenVerifier, error) {
	verifiers := make(map[domain.AuthProvider]port.SocialTokenVerifier)

	keysFor := func(name, url string) *jwks.KeySet {
		return jwks.New(jwks.Config{
			Name:               name,
			URL:                url,
			DefaultTTL:         cfg.Keys.DefaultTTL,
			MinRefreshInterval: cfg.Keys.MinRefreshInterval,
			FetchTimeout:       cfg.Keys.FetchTimeout,
		})
	}

	if cfg.Google.Enabled() {
		v, err := google.NewVerifier(cfg.Google, keysFor("google", cfg.Google.JWKSURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google verifier: %w", err)
		}
		verifiers[domain.AuthProviderGoogle] = v
		log.Info().Strs("client_ids", cfg.Google.ClientIDs).Msg("Google sign-in enabled")
	}
	if cfg.Apple.Enabled() {
		v, err := apple.NewVerifier(cfg.Apple, keysFor("apple", cfg.Apple.JWKSURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Apple verifier: %w", err)
		}
		verifiers[domain.AuthProviderApple] = v
		log.Info().Strs("client_ids", cfg.Apple.ClientIDs).Msg("Apple sign-in enabled")
	}
	return verifiers, nil
}

func newRevocationStore(ctx context.Context, cfg config.RedisConfig) (port.TokenRevocationStore, func(), error) {
	if cfg.Addr == "" {
		log.Warn().Msg("redis not configured, refresh tokens cannot be revoked")
		return redis.NewNoopRevocationStore(), func() {}, nil
	}
	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return redis.NewRevocationStore(client), func() { _ = client.Close() }, nil
}

func newEmailSender(ctx context.Context, cfg config.EmailConfig) (port.EmailSender, error) {
	if cfg.Provider != "ses" {
		return noop.NewNoopSender(), nil
	}
	sender, err := ses.NewSESSender(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
	}
	return sender, nil
}
