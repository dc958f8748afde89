package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro-backend/internal/config"
	"bistro-backend/internal/database"
	"bistro-backend/internal/events"
	"bistro-backend/internal/handlers"
	"bistro-backend/internal/logging"
	"bistro-backend/internal/services"
	"bistro-backend/internal/services/assist"
	"bistro-backend/internal/store"
	"bistro-backend/internal/websocket"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	aiCacheEntries    = 500
	aiCacheSweep      = 10 * time.Minute
	eventBuffer       = 256
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// pingFunc adapts a closure to handlers.Pinger
type pingFunc func() error

func (f pingFunc) Ping() error { return f() }

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info(".env file not found, using environment variables from system")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st := store.New(store.Options{TableCount: cfg.TableCount, Logger: logger.Named("store")})
	backends := make(map[string]handlers.Pinger)

	users := services.NewUserService(st)
	if cfg.AdminPassword != "" {
		admin, created, err := users.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("admin account created", zap.String("email", admin.Email))
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, no account can log in until one is created")
	}

	assistant, cleanup := newAssistant(ctx, cfg, logger, backends)
	defer cleanup()

	if cfg.RabbitMQURL != "" {
		broker, err := events.DialAMQP(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, event mirror disabled", zap.Error(err))
		} else {
			defer broker.Close()
			publisher := events.NewPublisher(broker, logger, eventBuffer)
			st.Subscribe(publisher.Handle)
			go publisher.Run(ctx)
			backends["rabbitmq"] = broker
			logger.Info("event mirror enabled", zap.String("exchange", events.Exchange))
		}
	}

	var history handlers.HistoryReader
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		archive := database.NewArchive(db)
		archiver := database.NewArchiver(archive, logger)
		st.Subscribe(archiver.Handle)
		go archiver.Run(ctx)
		history = archive
		backends["postgres"] = db
		logger.Info("order archive enabled")
	}

	var fcm *services.FCMService
	var err error
	switch {
	case cfg.FirebaseCredentialsBase64 != "":
		fcm, err = services.NewFCMServiceFromBase64(ctx, cfg.FirebaseCredentialsBase64, logger)
	case cfg.FirebaseCredentialsFile != "":
		fcm, err = services.NewFCMService(ctx, cfg.FirebaseCredentialsFile, logger)
	}
	if err != nil {
		logger.Warn("failed to initialize FCM, push notifications disabled", zap.Error(err))
	} else if fcm != nil {
		st.Subscribe(services.NewDriverNotifier(st, fcm, logger).Handle)
		logger.Info("driver push notifications enabled")
	}

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	st.Subscribe(websocket.NewForwarder(hub, st).Handle)

	a := &app{
		jwtSecret:    cfg.JWTSecret,
		tokenTTL:     cfg.TokenTTL,
		started:      time.Now(),
		logger:       logger,
		store:        st,
		users:        users,
		pos:          services.NewPOSService(st, cfg.TaxRate),
		orders:       services.NewOrderService(st),
		kitchen:      services.NewKitchenService(st),
		delivery:     services.NewDeliveryService(st),
		pickup:       services.NewPickupService(st),
		drivers:      services.NewDriverService(st),
		menu:         services.NewMenuService(st, assistant),
		reservations: services.NewReservationService(st),
		dashboard:    services.NewDashboardService(st, assistant, cfg.Location()),
		hub:          hub,
		history:      history,
		backends:     backends,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(a),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.Int("tables", cfg.TableCount))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newAssistant wires Gemini behind the memory cache and, when configured,
// a shared Redis cache. Without an API key every call uses its fallback.
func newAssistant(ctx context.Context, cfg *config.Config, logger *zap.Logger, backends map[string]handlers.Pinger) (*assist.Service, func()) {
	cleanup := func() {}

	memory := assist.NewMemoryCache(aiCacheEntries, cfg.AICacheTTL)
	go memory.RunJanitor(ctx, aiCacheSweep)
	var cache assist.Cache = memory

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, using in-process AI cache only", zap.Error(err))
			rdb.Close()
		} else {
			cache = assist.Tiered{First: memory, Second: assist.NewRedisCache(rdb, cfg.AICacheTTL, logger)}
			backends["redis"] = pingFunc(func() error { return rdb.Ping(context.Background()).Err() })
			cleanup = func() { rdb.Close() }
		}
	}

	var provider assist.Provider
	if cfg.GeminiAPIKey != "" {
		client, err := assist.NewGeminiClient(ctx, assist.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			TextModel:   cfg.GeminiTextModel,
			ImageModel:  cfg.GeminiImageModel,
			SpeechModel: cfg.GeminiSpeechModel,
		})
		if err != nil {
			logger.Warn("Gemini unavailable, AI assist uses fallbacks", zap.Error(err))
		} else {
			provider = client
			logger.Info("AI assist enabled", zap.String("model", cfg.GeminiTextModel))
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, AI assist uses fallbacks")
	}

	return assist.New(provider, cache, cfg.AITimeout, logger), cleanup
}
