package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ptrainer/backend/internal/aggregation"
	"ptrainer/backend/internal/api"
	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/config"
	"ptrainer/backend/internal/invalidation"
	"ptrainer/backend/internal/metrics"
	"ptrainer/backend/internal/repository"
	"ptrainer/backend/internal/repository/memory"
	"ptrainer/backend/internal/repository/mongo"
	"ptrainer/backend/internal/service"
	"ptrainer/backend/internal/storage"
	"ptrainer/backend/internal/sweeper"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// repositories is the record store the services run on.
type repositories struct {
	memberships repository.MembershipRepository
	packages    repository.PackageRepository
	clients     repository.ClientRepository
	plans       repository.PlanRepository
	exercises   repository.ExerciseRepository
	foods       repository.FoodRepository
	performance repository.PerformanceRepository
}

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting ptrainer backend",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Record store ---
	var (
		repos repositories
		appDB *mongodriver.Database
	)
	switch cfg.Database.Driver {
	case "memory":
		db := memory.NewDB(nil)
		repos = repositories{
			memberships: db.Memberships(),
			packages:    db.Packages(),
			clients:     db.Clients(),
			plans:       db.Plans(),
			exercises:   db.Exercises(),
			foods:       db.Foods(),
			performance: db.Performance(),
		}
		logger.Warn("using the in-memory record store; data is lost on exit")
	default:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			logger.Fatal("could not connect to MongoDB", zap.Error(err))
		}
		defer func() {
			logger.Info("disconnecting MongoDB")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				logger.Error("failed to disconnect MongoDB", zap.Error(err))
			}
		}()
		appDB = dbClient.Database(cfg.Database.Name)
		logger.Info("database connection established", zap.String("database", cfg.Database.Name))

		go func() {
			indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			mongo.EnsureIndexes(indexCtx, appDB, logger)
			logger.Info("index creation process completed")
		}()

		repos = repositories{
			memberships: mongo.NewMongoMembershipRepository(appDB),
			packages:    mongo.NewMongoPackageRepository(appDB),
			clients:     mongo.NewMongoClientRepository(appDB),
			plans:       mongo.NewMongoPlanRepository(appDB),
			exercises:   mongo.NewMongoExerciseRepository(appDB),
			foods:       mongo.NewMongoFoodRepository(appDB),
			performance: mongo.NewMongoPerformanceRepository(appDB),
		}
	}

	// --- Cache store ---
	var store cache.Store
	switch cfg.Cache.Driver {
	case "mongo":
		if appDB == nil {
			logger.Fatal("cache.driver mongo requires database.driver mongo")
		}
		store = mongo.NewCacheStore(appDB)
	default:
		store = cache.NewMemoryStore(ctx, cfg.Cache.CleanupInterval)
	}

	// --- Metrics ---
	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	// --- Caches, pipeline and invalidation ---
	oracle := cache.NewVersionOracle(repos.memberships, repos.clients, repos.plans)
	libraryCache := cache.NewLibraryCache(store, cfg.Cache.LibraryTTL, logger, m)
	membershipCache := cache.NewMembershipCache(store, oracle, cfg.Cache.MembershipTTL, logger, m)
	pipeline := aggregation.NewPipeline(repos.memberships, repos.clients, repos.plans, repos.exercises, repos.foods,
		repos.performance, libraryCache, logger, m)
	router := invalidation.NewRouter(repos.memberships, repos.plans, membershipCache, libraryCache, logger)

	// --- Initialize Services ---
	membershipService := service.NewMembershipService(repos.memberships, repos.packages, repos.clients, membershipCache, pipeline, router, logger)
	clientService := service.NewClientService(repos.clients, repos.exercises, repos.performance, router, logger)
	planService := service.NewPlanService(repos.plans, repos.memberships, repos.clients, router, logger)
	nutritionService := service.NewNutritionService(pipeline, logger)
	libraryService := service.NewLibraryService(repos.exercises, repos.foods, router, logger)

	// --- Background workers ---
	statusSweeper := sweeper.New(repos.memberships, repos.plans, router, cfg.Sweep.Interval, logger, m)
	if cfg.Sweep.Enabled {
		go statusSweeper.Start(ctx)
	}
	if cfg.Events.Watch {
		if appDB == nil {
			logger.Warn("events.watch needs the mongo record store; change stream disabled")
		} else {
			watcher := mongo.NewChangeWatcher(appDB, router, logger)
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("change stream stopped", zap.Error(err))
				}
			}()
		}
	}

	// --- Initialize Storage ---
	var signer storage.MediaSigner
	if cfg.S3.Enabled {
		s3Signer, err := storage.NewS3Signer(ctx, cfg.S3, logger)
		if err != nil {
			logger.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
		signer = s3Signer
	}

	// --- Initialize Gin Engine ---
	if cfg.Log.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), api.RequestLogger(logger))
	api.SetupRoutes(engine, logger, api.Services{
		Membership: membershipService,
		Client:     clientService,
		Plan:       planService,
		Nutrition:  nutritionService,
		Library:    libraryService,
		Sweeper:    statusSweeper,
		Signer:     signer,
		URLExpiry:  cfg.S3.URLExpiry,
		Metrics:    promhttp.Handler(),
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Environment == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}
