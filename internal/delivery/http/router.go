package http

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bankagent/internal/infra"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	QueryHandler  *QueryHandler
	LedgerHandler *LedgerHandler
	Scheduler     *infra.Scheduler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "bankagent-api",
		})
	})

	api := e.Group("/api")
	{
		api.POST("/query", config.QueryHandler.PostQuery)
		api.POST("/setup", config.LedgerHandler.Setup)
		api.GET("/accounts", config.LedgerHandler.GetAccounts)
		api.GET("/users/:id/accounts", config.LedgerHandler.GetUserAccounts)
		api.GET("/accounts/:id/balance", config.LedgerHandler.GetBalance)
		api.GET("/accounts/:id/transactions", config.LedgerHandler.GetTransactions)
	}

	if config.Scheduler != nil {
		api.POST("/audit/trigger", func(c echo.Context) error {
			log.Println("Manual ledger audit triggered via API")
			if err := config.Scheduler.RunNow(); err != nil {
				return InternalServerErrorResponse(c, "Ledger audit failed", err)
			}
			return SuccessResponse(c, map[string]interface{}{
				"message": "Ledger audit passed",
			})
		})
	}
}
