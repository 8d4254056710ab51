package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerCurrencyRoutes(v1, services.Currency)
	registerBalanceRoutes(v1, services.Ledger, services.Currency)
	registerExchangeRoutes(v1, services.Exchange, services.ExchangeQuery)
}
