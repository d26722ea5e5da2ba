// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goal-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	authController     *controller.AuthController
	userController     *controller.UserController
	goalController     *controller.GoalController
	userGoalController *controller.UserGoalController
	loginRateLimiter   *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	goalController *controller.GoalController,
	userGoalController *controller.UserGoalController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		authController:     authController,
		userController:     userController,
		goalController:     goalController,
		userGoalController: userGoalController,
		loginRateLimiter:   loginRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment, allowOrigin string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.HandleMethodNotAllowed = true
	r.engine.Use(gin.Logger(), gin.CustomRecovery(recoverWithEnvelope))
	r.engine.Use(middleware.CORS(allowOrigin))

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Fail("Resource not found", ""))
	})
	r.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.Fail("Method not allowed", ""))
	})

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func recoverWithEnvelope(c *gin.Context, recovered any) {
	slog.Error("Recovered from panic", "panic", recovered, "path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Fail("An internal error occurred", ""))
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	api := r.engine.Group("/api")
	{
		api.GET("/health", r.healthController.Check)

		// Auth routes (only setup if auth controller is available)
		if r.authController != nil && r.authMiddleware != nil {
			auth := api.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				if r.loginRateLimiter != nil {
					auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				} else {
					auth.POST("/login", r.authController.Login)
				}
				auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
				auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			}
		}

		// User routes (require authentication)
		if r.userController != nil && r.authMiddleware != nil {
			users := api.Group("/users")
			users.Use(r.authMiddleware.Authenticate())
			{
				users.GET("/me", r.userController.Get)
				users.PUT("/me", r.userController.Update)
				users.DELETE("/me", r.userController.Delete)
			}
		}

		// Goal routes (require authentication)
		if r.goalController != nil && r.authMiddleware != nil {
			goals := api.Group("/goals")
			goals.Use(r.authMiddleware.Authenticate())
			{
				goals.GET("", r.goalController.List)
				goals.POST("", r.goalController.Create)
				goals.GET("/:id", r.goalController.Get)
				goals.PUT("/:id", r.goalController.Update)
				goals.DELETE("/:id", r.goalController.Delete)
			}
		}

		// User goal routes (require authentication)
		if r.userGoalController != nil && r.authMiddleware != nil {
			userGoals := api.Group("/user-goals")
			userGoals.Use(r.authMiddleware.Authenticate())
			{
				userGoals.GET("", r.userGoalController.List)
				userGoals.POST("", r.userGoalController.Create)
				userGoals.GET("/:id", r.userGoalController.Get)
				userGoals.PUT("/:id", r.userGoalController.Update)
				userGoals.DELETE("/:id", r.userGoalController.Delete)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
