// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/goal-tracker/backend/config"
	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/application/usecase/assignment"
	"github.com/goal-tracker/backend/internal/application/usecase/auth"
	"github.com/goal-tracker/backend/internal/application/usecase/goal"
	"github.com/goal-tracker/backend/internal/application/usecase/user"
	"github.com/goal-tracker/backend/internal/infra/cache"
	"github.com/goal-tracker/backend/internal/infra/server/router"
	"github.com/goal-tracker/backend/internal/integration/adapters"
	"github.com/goal-tracker/backend/internal/integration/email"
	"github.com/goal-tracker/backend/internal/integration/email/templates"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/goal-tracker/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Router       *router.Router
	EmailService *email.Service
	EmailWorker  *email.Worker
	EmailSender  adapter.EmailSender
}

// Options overrides pieces of the wiring, mostly for tests.
type Options struct {
	// DBHealthChecker reports database health. Defaults to pinging db.
	DBHealthChecker controller.HealthChecker

	// EmailSender replaces the Resend client. Defaults to Resend when an API key
	// is configured and to an in-memory sender otherwise.
	EmailSender adapter.EmailSender
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case logout revocation is disabled and the
// login limiter keeps its counters in memory.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts Options) (*Injector, error) {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	goalRepo := persistence.NewGoalRepository(db)
	assignmentRepo := persistence.NewAssignmentRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	var revokedRepo adapter.RevokedTokenRepository
	if redisClient != nil {
		revokedRepo = persistence.NewRevokedTokenRepository(redisClient)
	}

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Auth.BcryptCost)
	tokenService := adapters.NewTokenService(adapters.TokenConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiry,
		Issuer: cfg.JWT.Issuer,
	}, revokedRepo)

	// Create email service and worker
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)
	sender := opts.EmailSender
	if sender == nil {
		if cfg.Email.ResendAPIKey != "" {
			resendClient, err := email.NewResendClient(email.ResendConfig{
				APIKey:    cfg.Email.ResendAPIKey,
				BaseURL:   cfg.Email.ResendBaseURL,
				FromName:  cfg.Email.FromName,
				FromEmail: cfg.Email.FromEmail,
			})
			if err != nil {
				return nil, err
			}
			sender = resendClient
		} else {
			slog.Warn("RESEND_API_KEY not set, emails will be kept in memory and not delivered")
			sender = email.NewMemorySender()
		}
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	emailWorker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Retention:    cfg.Email.Retention,
	})

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, emailService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	meUseCase := auth.NewGetCurrentUserUseCase(userRepo)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create user use cases
	getUserUseCase := user.NewGetUserUseCase(userRepo)
	updateUserUseCase := user.NewUpdateUserUseCase(userRepo, passwordService)
	deleteUserUseCase := user.NewDeleteUserUseCase(userRepo, passwordService, tokenService)

	// Create goal use cases
	listGoalsUseCase := goal.NewListGoalsUseCase(goalRepo)
	createGoalUseCase := goal.NewCreateGoalUseCase(goalRepo)
	getGoalUseCase := goal.NewGetGoalUseCase(goalRepo)
	updateGoalUseCase := goal.NewUpdateGoalUseCase(goalRepo)
	deleteGoalUseCase := goal.NewDeleteGoalUseCase(goalRepo)

	// Create assignment use cases
	listAssignmentsUseCase := assignment.NewListAssignmentsUseCase(assignmentRepo)
	createAssignmentUseCase := assignment.NewCreateAssignmentUseCase(assignmentRepo, goalRepo, userRepo)
	getAssignmentUseCase := assignment.NewGetAssignmentUseCase(assignmentRepo)
	updateAssignmentUseCase := assignment.NewUpdateAssignmentUseCase(assignmentRepo, userRepo, emailService)
	deleteAssignmentUseCase := assignment.NewDeleteAssignmentUseCase(assignmentRepo)

	// Create controllers
	dbHealthChecker := opts.DBHealthChecker
	if dbHealthChecker == nil {
		dbHealthChecker = pingDB(db)
	}
	var redisHealthChecker controller.HealthChecker
	if redisClient != nil {
		redisHealthChecker = func(ctx context.Context) bool {
			return redisClient.Ping(ctx).Err() == nil
		}
	}
	healthController := controller.NewHealthController(dbHealthChecker, redisHealthChecker)

	authController := controller.NewAuthController(registerUseCase, loginUseCase, meUseCase, logoutUseCase)
	userController := controller.NewUserController(getUserUseCase, updateUserUseCase, deleteUserUseCase)
	goalController := controller.NewGoalController(
		listGoalsUseCase,
		createGoalUseCase,
		getGoalUseCase,
		updateGoalUseCase,
		deleteGoalUseCase,
	)
	userGoalController := controller.NewUserGoalController(
		listAssignmentsUseCase,
		createAssignmentUseCase,
		getAssignmentUseCase,
		updateAssignmentUseCase,
		deleteAssignmentUseCase,
	)

	// Create middleware
	var loginRateLimiter *middleware.RateLimiter
	if redisClient != nil {
		loginRateLimiter = middleware.NewRateLimiter(
			cache.NewRateLimitStore(redisClient),
			cfg.Auth.LoginRateLimit,
			cfg.Auth.LoginRateWindow,
		)
	} else {
		loginRateLimiter = middleware.NewInMemoryRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		userController,
		goalController,
		userGoalController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Router:       r,
		EmailService: emailService,
		EmailWorker:  emailWorker,
		EmailSender:  sender,
	}, nil
}

func pingDB(db *gorm.DB) controller.HealthChecker {
	return func(ctx context.Context) bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.PingContext(ctx) == nil
	}
}
