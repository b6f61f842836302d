package cmd

import (
	"fmt"
	"net/http"

	"thinking-of-you-backend/internal/config"
	"thinking-of-you-backend/internal/handlers"
	"thinking-of-you-backend/internal/middleware"
	"thinking-of-you-backend/internal/push"
	"thinking-of-you-backend/internal/repository"
	"thinking-of-you-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// app holds the wired components of a running server
type app struct {
	router   http.Handler
	hub      *services.WSHub
	notifier *services.Notifier
	cleanup  *services.CleanupService
	codes    *repository.PairingRegistry
}

func newApp(cfg *config.Config) (*app, error) {
	// Initialize repositories
	userRepo := repository.NewUserRepository()
	connectionRepo := repository.NewConnectionRepository(cfg.Pairing.MaxConnections)
	codes := repository.NewPairingRegistry(cfg.Pairing.CodeTTL, *cfg.Pairing.UniqueCodes)
	subs := repository.NewSubscriptionRepository()

	// Initialize push providers
	if !cfg.HasVAPIDKeys() {
		privateKey, publicKey, err := push.GenerateVAPIDKeys()
		if err != nil {
			return nil, err
		}
		cfg.Push.VAPID.PrivateKey, cfg.Push.VAPID.PublicKey = privateKey, publicKey
		log.Warn().Msg("No VAPID keys configured, generated an ephemeral pair; browser subscriptions will not survive a restart")
	}
	webPush, err := push.NewWebPushSender(push.WebPushConfig{
		Subscriber:      cfg.Push.VAPID.Subscriber,
		VAPIDPublicKey:  cfg.Push.VAPID.PublicKey,
		VAPIDPrivateKey: cfg.Push.VAPID.PrivateKey,
		TTL:             cfg.Push.VAPID.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create web push sender: %w", err)
	}

	var apns push.Sender
	if cfg.Push.APNS.KeyFile != "" {
		apnsSender, err := push.NewAPNSSender(push.APNSConfig{
			KeyFile:    cfg.Push.APNS.KeyFile,
			KeyID:      cfg.Push.APNS.KeyID,
			TeamID:     cfg.Push.APNS.TeamID,
			Topic:      cfg.Push.APNS.Topic,
			Production: cfg.Push.APNS.Production,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create apns sender: %w", err)
		}
		apns = apnsSender
		log.Info().Str("topic", cfg.Push.APNS.Topic).Bool("production", cfg.Push.APNS.Production).Msg("APNs enabled")
	}
	dispatcher := push.NewDispatcher(webPush, apns)

	// Initialize services
	hub := services.NewWSHub()
	notifier := services.NewNotifier(hub, subs, dispatcher, cfg.Push.Timeout)
	userService := services.NewUserService(userRepo, connectionRepo)
	pairService := services.NewPairService(userService, codes, connectionRepo, notifier)
	connectionService := services.NewConnectionService(userService, connectionRepo, notifier)
	pushService := services.NewPushService(userService, subs, webPush.PublicKey(), dispatcher.Supports)
	cleanup := services.NewCleanupService(codes, cfg.Pairing.SweepInterval)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	pairHandler := handlers.NewPairHandler(pairService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	pushHandler := handlers.NewPushHandler(pushService)
	wsHandler := handlers.NewWebSocketHandler(hub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.Get("/health", handlers.Health)

	// Routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/user", userHandler.UpsertUser)
		r.Get("/vapid-public-key", pushHandler.VAPIDPublicKey)
		r.Post("/push/subscribe", pushHandler.Subscribe)
		r.Put("/connection/{connection_id}", connectionHandler.Customize)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
			r.Post("/pairing/generate", pairHandler.Generate)
			r.Post("/pairing/join", pairHandler.Join)
			r.Post("/thinking", connectionHandler.Thinking)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	return &app{
		router:   r,
		hub:      hub,
		notifier: notifier,
		cleanup:  cleanup,
		codes:    codes,
	}, nil
}
