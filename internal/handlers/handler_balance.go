package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	"github.com/mvcastro/currency_exchange_app/internal/dto"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// balanceHandler handles HTTP requests against the per-account balance ledger.
type balanceHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	currencyService portssvc.CurrencySvcFacade
}

func newBalanceHandler(ls portssvc.LedgerSvcFacade, cs portssvc.CurrencySvcFacade) *balanceHandler {
	return &balanceHandler{
		ledgerService:   ls,
		currencyService: cs,
	}
}

// registerBalanceRoutes registers balance routes under /accounts/:accountID.
func registerBalanceRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, currencyService portssvc.CurrencySvcFacade) {
	h := newBalanceHandler(ledgerService, currencyService)

	balances := rg.Group("/accounts/:accountID/balances")
	{
		balances.GET("", h.listBalances)
		balances.GET("/:code", h.getBalance)
		balances.POST("/credit", h.creditBalance)
		balances.POST("/debit", h.debitBalance)
		balances.PUT("", h.setBalance)
	}
}

// resolveCurrency looks up the currency for a code from the request body or path.
func (h *balanceHandler) resolveCurrency(c *gin.Context, code string) (*domain.Currency, bool) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), strings.ToUpper(code))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return currency, true
}

func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := uuidParam(c, "accountID")
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID))

	balances, err := h.ledgerService.ListForAccount(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to list balances", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponses(balances))
}

func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := uuidParam(c, "accountID")
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID), slog.String("currency_code", c.Param("code")))

	currency, ok := h.resolveCurrency(c, c.Param("code"))
	if !ok {
		return
	}

	amount, err := h.ledgerService.GetBalance(c.Request.Context(), accountID, currency.CurrencyID)
	if err != nil {
		logger.Error("Failed to get balance", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:    accountID,
		CurrencyCode: currency.Code,
		Amount:       amount,
	})
}

// mutateBalance factors the shared request handling of credit, debit and set.
func (h *balanceHandler) mutateBalance(c *gin.Context, op string, mutate func(accountID, currencyID string, amount domain.Money) (domain.Money, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := uuidParam(c, "accountID")
	if !ok {
		return
	}

	var req dto.BalanceMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for balance mutation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("account_id", accountID),
		slog.String("currency_code", req.CurrencyCode),
		slog.String("operation", op),
	)

	currency, ok := h.resolveCurrency(c, req.CurrencyCode)
	if !ok {
		return
	}

	newAmount, err := mutate(accountID, currency.CurrencyID, domain.NewAmount(req.Amount))
	if err != nil {
		logger.Warn("Balance mutation failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Balance mutated successfully", slog.String("new_amount", newAmount.String()))
	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:    accountID,
		CurrencyCode: currency.Code,
		Amount:       newAmount,
	})
}

func (h *balanceHandler) creditBalance(c *gin.Context) {
	h.mutateBalance(c, "credit", func(accountID, currencyID string, amount domain.Money) (domain.Money, error) {
		return h.ledgerService.Credit(c.Request.Context(), accountID, currencyID, amount)
	})
}

func (h *balanceHandler) debitBalance(c *gin.Context) {
	h.mutateBalance(c, "debit", func(accountID, currencyID string, amount domain.Money) (domain.Money, error) {
		return h.ledgerService.Debit(c.Request.Context(), accountID, currencyID, amount)
	})
}

func (h *balanceHandler) setBalance(c *gin.Context) {
	h.mutateBalance(c, "set", func(accountID, currencyID string, amount domain.Money) (domain.Money, error) {
		return h.ledgerService.SetAbsolute(c.Request.Context(), accountID, currencyID, amount)
	})
}
