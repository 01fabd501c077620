package container

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/studybuddy/backend/internal/bucket"
	"github.com/studybuddy/backend/internal/config"
	httpdelivery "github.com/studybuddy/backend/internal/delivery/http"
	"github.com/studybuddy/backend/internal/delivery/http/handler"
	"github.com/studybuddy/backend/internal/delivery/http/middleware"
	"github.com/studybuddy/backend/internal/infrastructure/database"
	"github.com/studybuddy/backend/internal/infrastructure/email"
	"github.com/studybuddy/backend/internal/infrastructure/server"
	"github.com/studybuddy/backend/internal/infrastructure/storage"
	"github.com/studybuddy/backend/internal/moderation"
	"github.com/studybuddy/backend/internal/repository"
	"github.com/studybuddy/backend/internal/repository/postgres"
	"github.com/studybuddy/backend/internal/repository/redisstore"
	"github.com/studybuddy/backend/internal/usecase/auth"
	"github.com/studybuddy/backend/internal/usecase/buddylist"
	"github.com/studybuddy/backend/internal/usecase/connection"
	"github.com/studybuddy/backend/internal/usecase/matching"
	"github.com/studybuddy/backend/internal/usecase/user"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server

	userRepo        repository.UserRepository
	matchingUseCase *matching.MatchingUseCase

	maintenanceStop chan struct{}
}

// NewContainer wires repositories, usecases, handlers, and the HTTP
// server together.
func NewContainer(cfg *config.Config) (*Container, error) {
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	objectStore, err := storage.NewS3Store(context.Background(), cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	mailer := email.NewSMTPMailer(cfg.SMTP, cfg.App.FrontendBaseURL)
	checker := moderation.NewChecker()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	reachOutRepo := postgres.NewReachOutRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	approvalRepo := postgres.NewApprovalRepository(db)
	selectionRepo := postgres.NewSelectionRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	surveyRepo := postgres.NewSurveyRepository(db)
	verificationStore := redisstore.NewVerificationStore(redisClient)

	assigner := bucket.NewCountBalancingAssigner(
		userRepo, rand.New(rand.NewSource(time.Now().UnixNano())))

	// Use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		verificationStore,
		mailer,
		assigner,
		checker,
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.VerifyCodeTTL,
	)

	userUseCase := user.NewUserUseCase(userRepo, surveyRepo, reportRepo, objectStore, checker)

	buddyListUseCase := buddylist.NewBuddyListUseCase(
		userRepo, ratingRepo, selectionRepo, cfg.App.CandidatePoolCap)

	matchingUseCase := matching.NewMatchingUseCase(userRepo, approvalRepo)

	connectionUseCase := connection.NewConnectionUseCase(
		userRepo, reachOutRepo, ratingRepo, noteRepo,
		mailer, checker, cfg.App.DailyReachOuts)

	// Handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	userHandler := handler.NewUserHandler(userUseCase)
	buddyListHandler := handler.NewBuddyListHandler(buddyListUseCase)
	matchingHandler := handler.NewMatchingHandler(matchingUseCase)
	connectionHandler := handler.NewConnectionHandler(connectionUseCase)

	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	router := httpdelivery.NewRouter(
		authHandler,
		userHandler,
		buddyListHandler,
		matchingHandler,
		connectionHandler,
		authMiddleware,
		cfg.App.AllowedOrigins,
	)

	srv := server.NewServer(&cfg.Server, router.Setup())

	return &Container{
		Config:          cfg,
		DB:              db,
		Redis:           redisClient,
		Server:          srv,
		userRepo:        userRepo,
		matchingUseCase: matchingUseCase,
		maintenanceStop: make(chan struct{}),
	}, nil
}

// StartMaintenance runs the periodic sweeps: the daily reputation decay
// and the stale-approval cleanup.
func (c *Container) StartMaintenance() {
	period := c.Config.App.MaintenancePeriod
	if period <= 0 {
		period = 24 * time.Hour
	}

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.runMaintenance()
			case <-c.maintenanceStop:
				return
			}
		}
	}()
}

func (c *Container) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	decayed, err := c.userRepo.ApplyReputationDecay(ctx)
	if err != nil {
		fmt.Printf("Maintenance: reputation decay failed: %v\n", err)
	} else {
		fmt.Printf("Maintenance: decayed reputation for %d users\n", decayed)
	}

	deleted, err := c.matchingUseCase.CleanupStale(ctx)
	if err != nil {
		fmt.Printf("Maintenance: approval cleanup failed: %v\n", err)
	} else {
		fmt.Printf("Maintenance: removed %d stale approvals\n", deleted)
	}
}

// Close stops the maintenance loop and closes all connections.
func (c *Container) Close() error {
	close(c.maintenanceStop)

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			fmt.Printf("Error closing Redis: %v\n", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
