package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"zk-tipping.backend/internal/config"
	"zk-tipping.backend/internal/infrastructure/blockchain"
	"zk-tipping.backend/internal/infrastructure/jobs"
	"zk-tipping.backend/internal/infrastructure/repositories"
	"zk-tipping.backend/internal/interfaces/http/handlers"
	"zk-tipping.backend/internal/interfaces/http/middleware"
	"zk-tipping.backend/internal/usecases"
	"zk-tipping.backend/pkg/jwt"
	"zk-tipping.backend/pkg/logger"
	"zk-tipping.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	newTokenClient = blockchain.NewTokenClient
	runServer      = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB       = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	credentialRepo := repositories.NewCredentialRepository(db)
	creatorRepo := repositories.NewCreatorRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	paymentRepo := repositories.NewSubscriptionPaymentRepository(db)
	tipRepo := repositories.NewTipRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	eventRepo := repositories.NewActivityEventRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize chain access
	tokenClient, err := newTokenClient(cfg.Blockchain.RPCURL, cfg.Blockchain.KeeperPrivateKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token client: %w", err)
	}
	defer tokenClient.Close()

	proofVerifier := blockchain.NewProofVerifier(cfg.Blockchain.VerifierURL, cfg.Blockchain.CallTimeout)

	// Parse subscription bounds
	bounds, err := usecases.NewBounds(cfg.Bounds)
	if err != nil {
		return fmt.Errorf("failed to parse bounds: %w", err)
	}

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	credentialUsecase := usecases.NewCredentialUsecase(credentialRepo, userRepo, eventRepo, proofVerifier)
	creatorUsecase := usecases.NewCreatorUsecase(creatorRepo, userRepo, credentialRepo, paymentRepo, tipRepo, withdrawalRepo, eventRepo)
	subscriptionUsecase := usecases.NewSubscriptionUsecase(subscriptionRepo, paymentRepo, creatorRepo, credentialRepo, eventRepo, bounds, cfg.Blockchain.PaymentTokenAddress)
	reconcilerUsecase := usecases.NewReconcilerUsecase(subscriptionRepo, paymentRepo, eventRepo, uow)
	chargeUsecase := usecases.NewChargeUsecase(subscriptionRepo, credentialRepo, creatorRepo, userRepo, reconcilerUsecase, tokenClient, blockchain.AttemptHash, cfg.Blockchain.CallTimeout)
	tipUsecase := usecases.NewTipUsecase(tipRepo, withdrawalRepo, creatorRepo, credentialRepo, eventRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	credentialHandler := handlers.NewCredentialHandler(credentialUsecase)
	creatorHandler := handlers.NewCreatorHandler(creatorUsecase)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionUsecase)
	chargeHandler := handlers.NewChargeHandler(chargeUsecase, reconcilerUsecase)
	tipHandler := handlers.NewTipHandler(tipUsecase)
	eventHandler := handlers.NewEventHandler(eventRepo)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start the charge keeper
	keeperJob := jobs.NewChargeKeeperJob(chargeUsecase, cfg.Blockchain.KeeperAddress, cfg.Jobs.KeeperSweepInterval, cfg.Jobs.KeeperBatchSize)
	keeperJob.Start()

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		credentialHandler:   credentialHandler,
		creatorHandler:      creatorHandler,
		subscriptionHandler: subscriptionHandler,
		chargeHandler:       chargeHandler,
		tipHandler:          tipHandler,
		eventHandler:        eventHandler,
		authMiddleware:      authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		keeperJob.Stop()
	}()

	// Start server
	log.Printf("🚀 Tipping backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
