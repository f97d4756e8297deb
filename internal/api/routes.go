// Package api contains the API routes for the Session Manager API
package api

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/lmtuitions/sessionmanagerapi/internal/api/handlers"
	"github.com/lmtuitions/sessionmanagerapi/internal/config"
	"github.com/lmtuitions/sessionmanagerapi/internal/repository"
	"github.com/lmtuitions/sessionmanagerapi/internal/service"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/response"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures the routes for the API
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *gorm.DB, redisClient *redis.Client) {

	// Create a group for all API routes
	api := e.Group("/api")

	// Index route
	api.GET("/", indexRoute)

	// Services
	userService := service.NewUserService(repository.NewUserRepository(db))
	sessionService := service.NewSessionService(repository.NewSessionCookieRepository(db), redisClient, cfg.SessionTTL())

	// User routes
	userHandler := handlers.NewUserHandler(userService)
	userGroup := api.Group("/user")
	userGroup.POST("/setup", userHandler.Setup)
	userGroup.GET("/exists", userHandler.Exists)
	userGroup.POST("/logout", userHandler.Logout)

	// Session routes
	sessionHandler := handlers.NewSessionHandler(userService, sessionService, cfg.DashboardRefreshInterval())
	sessionGroup := api.Group("/session")
	sessionGroup.POST("/upload", sessionHandler.Upload)
	sessionGroup.GET("/current", sessionHandler.Current)
	sessionGroup.GET("/download", sessionHandler.Download)
	sessionGroup.DELETE("/:id", sessionHandler.Delete)

	// Dashboard route
	api.GET("/dashboard", sessionHandler.Dashboard)

	// Cron routes
	cronHandler := handlers.NewCronHandler(sessionService)
	cronGroup := api.Group("/cron")
	cronGroup.POST("/sweep", cronHandler.Sweep)
}

// indexRoute sets up the index route for the API
func indexRoute(c echo.Context) error {
	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	message := fmt.Sprintf("%s %s", cfg.APIName, cfg.APIVersion)
	return response.SuccessResponse(c, message)
}
