package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/example/sunlight/internal/api"
	"github.com/example/sunlight/internal/auth"
	"github.com/example/sunlight/internal/config"
	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/firebase"
	"github.com/example/sunlight/internal/middleware"
	"github.com/example/sunlight/pkg/cache"
	"github.com/example/sunlight/pkg/messagequeue"
)

func main() {
	// .env is a development convenience; production sets the environment directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, zapLogger); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(appConfig.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", appConfig.LogLevel, err)
	}
	zapConfig := zap.NewProductionConfig()
	if appConfig.AppEnv == "dev" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}

// dependencies holds everything run builds before serving.
type dependencies struct {
	services api.Services
	verifier auth.Verifier
	closers  []io.Closer
}

func (d *dependencies) Close(logger *zap.Logger) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			logger.Warn("Failed to close dependency", zap.Error(err))
		}
	}
}

func buildDependencies(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*dependencies, error) {
	deps := &dependencies{}
	fail := func(err error) (*dependencies, error) {
		deps.Close(logger)
		return nil, err
	}

	// --- 3. Initialize Firebase Admin SDK when a component needs it ---
	var fbApp *firebase.App
	if appConfig.UsesFirebase() {
		initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		app, err := firebase.InitFirebase(initCtx, appConfig, logger)
		if err != nil {
			return fail(err)
		}
		fbApp = app
	}

	// --- 4. Initialize Repositories ---
	var cartRepo db.CartRepository
	switch appConfig.CartStore {
	case config.CartStoreFirestore:
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return fail(err)
		}
		deps.closers = append(deps.closers, client)
		if cartRepo, err = db.NewFirestoreCartRepository(client); err != nil {
			return fail(err)
		}
	default:
		repo, err := db.NewFileCartRepository(appConfig.DataDir)
		if err != nil {
			return fail(err)
		}
		cartRepo = repo
	}

	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			return fail(err)
		}
		deps.closers = append(deps.closers, redisCache)
		cartRepo = cache.NewCartRepositoryCache(cartRepo, redisCache, appConfig.CartCacheTTL, logger)
		logger.Info("Cart cache enabled", zap.String("redis", appConfig.RedisAddr), zap.Duration("ttl", appConfig.CartCacheTTL))
	}

	userRepo, err := db.NewFileUserRepository(appConfig.DataDir)
	if err != nil {
		return fail(err)
	}
	orderRepo, err := db.NewFileOrderRepository(appConfig.DataDir)
	if err != nil {
		return fail(err)
	}
	newsletterRepo, err := db.NewFileNewsletterRepository(appConfig.DataDir)
	if err != nil {
		return fail(err)
	}

	products := db.DefaultProducts()
	if appConfig.CatalogFile != "" {
		if products, err = db.LoadProductsYAML(appConfig.CatalogFile); err != nil {
			return fail(err)
		}
	}
	logger.Info("Repositories initialized successfully.", zap.String("cartStore", appConfig.CartStore), zap.Int("products", len(products)))

	// --- 5. Initialize Auth ---
	jwtManager, err := auth.NewJWTManager(appConfig.JWTSecret, appConfig.JWTTTL)
	if err != nil {
		return fail(err)
	}
	deps.verifier = jwtManager
	if appConfig.AuthProvider == config.AuthProviderFirebase {
		authClient, err := fbApp.Auth(ctx)
		if err != nil {
			return fail(err)
		}
		if deps.verifier, err = auth.NewFirebaseVerifier(authClient); err != nil {
			return fail(err)
		}
	}

	// --- 6. Initialize Services ---
	var orderOpts []core.OrderServiceOption
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.RabbitMQConfig{URL: appConfig.RabbitMQURL}, logger)
		if err != nil {
			return fail(err)
		}
		deps.closers = append(deps.closers, mq)
		orderOpts = append(orderOpts, core.WithOrderEvents(mq, appConfig.OrderEventsQueue))
		logger.Info("Order events enabled", zap.String("queue", appConfig.OrderEventsQueue))
	}

	deps.services = api.Services{
		Carts:      core.NewCartService(cartRepo, logger),
		Users:      core.NewUserService(userRepo, jwtManager, logger),
		Orders:     core.NewOrderService(orderRepo, logger, orderOpts...),
		Newsletter: core.NewNewsletterService(newsletterRepo, logger),
		Catalog:    core.NewCatalogService(db.NewMemoryProductRepository(products)),
	}
	logger.Info("Core services initialized successfully.")
	return deps, nil
}

func newRouter(appConfig *config.Config, logger *zap.Logger, deps *dependencies) *gin.Engine {
	// --- 7. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 8. Apply Global Middleware ---
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(appConfig))

	// --- 9. Setup API Routes ---
	api.SetupRoutes(router, logger, middleware.NewAuthMiddleware(deps.verifier, logger), deps.services)
	return router
}

func run(ctx context.Context, appConfig *config.Config, logger *zap.Logger) error {
	deps, err := buildDependencies(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer deps.Close(logger)

	// --- 10. Configure and Start HTTP Server ---
	httpServer := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           newRouter(appConfig, logger, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server...", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// --- 11. Graceful Shutdown Handling ---
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
