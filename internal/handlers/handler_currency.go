package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	"github.com/mvcastro/currency_exchange_app/internal/dto"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// currencyHandler handles HTTP requests related to the currency catalog.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyCode := strings.ToUpper(c.Param("code"))

	if currencyCode == "" || len(currencyCode) > 16 {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "currency code must be 1 to 16 characters"})
		return
	}

	logger = logger.With(slog.String("currency_code", currencyCode))

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), currencyCode)
	if err != nil {
		logger.Warn("Failed to get currency", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currencies", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Currencies listed successfully", slog.Int("count", len(currencies)))
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}
