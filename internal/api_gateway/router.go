package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/api_gateway/handler"
	"github.com/interest-ledger/internal/api_gateway/middleware"
)

// handlers groups the HTTP handlers mounted by setupRouter
type handlers struct {
	transaction *handler.TransactionHandler
	statement   *handler.StatementHandler
	rule        *handler.RuleHandler
	accrual     *handler.AccrualHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/transactions", h.transaction.Create)

		accounts := v1.Group("/accounts")
		{
			accounts.GET("/:id/statement", h.statement.Get)
			accounts.POST("/:id/statements", h.statement.CreateMonthly)
		}

		rules := v1.Group("/interest-rules")
		{
			rules.POST("", h.rule.Create)
			rules.GET("", h.rule.List)
		}

		v1.POST("/interest/accruals", h.accrual.Run)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
