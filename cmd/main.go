package main

import (
	"context"
	"log"
	"time"

	"github.com/Dev-May/socialMediaApp/config"
	"github.com/Dev-May/socialMediaApp/db"
	"github.com/Dev-May/socialMediaApp/internal/auth/handler"
	repo "github.com/Dev-May/socialMediaApp/internal/auth/repository/postgres"
	"github.com/Dev-May/socialMediaApp/internal/auth/service"
	"github.com/Dev-May/socialMediaApp/internal/event"
	"github.com/Dev-May/socialMediaApp/internal/idp"
	"github.com/Dev-May/socialMediaApp/internal/logging"
	"github.com/Dev-May/socialMediaApp/internal/mailer"
	"github.com/Dev-May/socialMediaApp/internal/storage"
	"github.com/gofiber/fiber/v2"
)

const sweepInterval = time.Hour

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Env)
	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up object store: %v", err)
	}

	userRepo := repo.NewUserRepository(dbPool)
	revokedRepo := repo.NewRevokedTokenRepository(dbPool)

	tokenService := service.NewTokenService(cfg)
	sessionValidator := service.NewSessionValidator(userRepo, revokedRepo, logger)

	bus := event.NewBus()
	verifier := idp.NewGoogleVerifier(cfg.GoogleClientID)

	userService := service.NewUserService(userRepo, revokedRepo, tokenService,
		verifier, store, bus, cfg, logger)

	registerEventHandlers(bus, userService, cfg, logger)

	go sweepRevokedTokens(ctx, userService)

	authHandler := handler.NewAuthHandler(userService)
	authMiddleware := handler.NewAuthMiddleware(tokenService, sessionValidator)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, authMiddleware)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func registerEventHandlers(bus *event.Bus, userService *service.UserService, cfg *config.Config, logger logging.Logger) {
	m := mailer.New(
		mailer.SMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailAddress, cfg.EmailPassword),
		cfg.ApplicationName,
	)

	sendOTP := func(subject, purpose string) event.Handler {
		return func(ctx context.Context, payload any) {
			p, ok := payload.(service.OTPEmailPayload)
			if !ok {
				return
			}
			if err := m.SendOTP(ctx, p.Email, subject, purpose, p.OTP); err != nil {
				logger.Error(ctx, "failed to send otp email", "subject", subject, "error", err)
			}
		}
	}

	bus.Subscribe(event.ConfirmEmail, sendOTP("Confirm Email", "email confirmation"))
	bus.Subscribe(event.ForgetPassword, sendOTP("Forget Password", "password reset"))

	bus.Subscribe(event.PromoteProfileImage, func(ctx context.Context, payload any) {
		if p, ok := payload.(service.ImagePromotionPayload); ok {
			userService.FinalizeProfileImage(ctx, p)
		}
	})
}

func sweepRevokedTokens(ctx context.Context, userService *service.UserService) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		userService.SweepRevokedTokens(ctx)
	}
}
