package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	"github.com/mvcastro/currency_exchange_app/internal/dto"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// exchangeHandler handles HTTP requests that perform or query exchanges.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
	queryService    portssvc.ExchangeQuerySvcFacade
}

func newExchangeHandler(es portssvc.ExchangeSvcFacade, qs portssvc.ExchangeQuerySvcFacade) *exchangeHandler {
	return &exchangeHandler{
		exchangeService: es,
		queryService:    qs,
	}
}

// registerExchangeRoutes registers the exchange and audit-trail routes.
func registerExchangeRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade, queryService portssvc.ExchangeQuerySvcFacade) {
	h := newExchangeHandler(exchangeService, queryService)

	rg.POST("/accounts/:accountID/exchanges", h.performExchange)

	exchanges := rg.Group("/exchanges")
	{
		exchanges.POST("/preview", h.previewExchange)
		exchanges.GET("", h.listExchanges)
		exchanges.GET("/:exchangeID", h.getExchangeByID)
	}
}

func (h *exchangeHandler) performExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := uuidParam(c, "accountID")
	if !ok {
		return
	}

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for exchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "Invalid request format: " + err.Error()})
		return
	}

	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)
	logger = logger.With(
		slog.String("account_id", accountID),
		slog.String("from_currency", fromCode),
		slog.String("to_currency", toCode),
	)
	logger.Info("Received exchange request", slog.String("from_amount", req.FromAmount.String()))

	result, err := h.exchangeService.Exchange(c.Request.Context(), accountID, fromCode, toCode, domain.NewAmount(req.FromAmount))
	if err != nil {
		logger.Warn("Exchange failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Exchange completed", slog.String("exchange_id", result.ExchangeID))
	c.JSON(http.StatusCreated, dto.ToExchangeResponse(result))
}

func (h *exchangeHandler) previewExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for exchange preview", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "Invalid request format: " + err.Error()})
		return
	}

	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)

	breakdown, err := h.exchangeService.Preview(c.Request.Context(), fromCode, toCode, domain.NewAmount(req.FromAmount))
	if err != nil {
		logger.Warn("Exchange preview failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRateBreakdownResponse(breakdown))
}

func (h *exchangeHandler) getExchangeByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	exchangeID, ok := uuidParam(c, "exchangeID")
	if !ok {
		return
	}
	logger = logger.With(slog.String("exchange_id", exchangeID))

	result, err := h.queryService.GetExchangeByID(c.Request.Context(), exchangeID)
	if err != nil {
		logger.Warn("Failed to get exchange", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeResponse(result))
}

func (h *exchangeHandler) listExchanges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExchangesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listing exchanges", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "Invalid query parameters: " + err.Error()})
		return
	}

	if params.AccountID != "" {
		id, err := uuid.Parse(params.AccountID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "accountID must be a valid UUID"})
			return
		}
		params.AccountID = id.String()
	}

	results, nextToken, err := h.queryService.ListExchanges(c.Request.Context(), params.ToExchangeFilter(), params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list exchanges", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Exchanges listed successfully", slog.Int("count", len(results)))
	c.JSON(http.StatusOK, dto.ToListExchangesResponse(results, nextToken))
}
