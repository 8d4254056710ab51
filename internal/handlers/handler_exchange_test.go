package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/core/domain"
	portssvc "github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	"github.com/mvcastro/currency_exchange_app/internal/handlers"
)

// --- Mock ExchangeService ---
type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) Exchange(ctx context.Context, accountID, fromCode, toCode string, fromAmount domain.Money) (*domain.ExchangeResult, error) {
	args := m.Called(ctx, accountID, fromCode, toCode, fromAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeResult), args.Error(1)
}

func (m *MockExchangeService) Preview(ctx context.Context, fromCode, toCode string, fromAmount domain.Money) (*domain.RateBreakdown, error) {
	args := m.Called(ctx, fromCode, toCode, fromAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateBreakdown), args.Error(1)
}

// --- Mock ExchangeQueryService ---
type MockExchangeQueryService struct {
	mock.Mock
}

func (m *MockExchangeQueryService) GetExchangeByID(ctx context.Context, exchangeID string) (*domain.ExchangeResult, error) {
	args := m.Called(ctx, exchangeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeResult), args.Error(1)
}

func (m *MockExchangeQueryService) ListExchanges(ctx context.Context, filter domain.ExchangeFilter, limit int, nextToken *string) ([]domain.ExchangeResult, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var results []domain.ExchangeResult
	if args.Get(0) != nil {
		results = args.Get(0).([]domain.ExchangeResult)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return results, token, args.Error(2)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, accountID, currencyID string) (domain.Money, error) {
	args := m.Called(ctx, accountID, currencyID)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	args := m.Called(ctx, accountID, currencyID, amount)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	args := m.Called(ctx, accountID, currencyID, amount)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockLedgerService) SetAbsolute(ctx context.Context, accountID, currencyID string, amount domain.Money) (domain.Money, error) {
	args := m.Called(ctx, accountID, currencyID, amount)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockLedgerService) ListForAccount(ctx context.Context, accountID string) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite ---
type ExchangeHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockExchange *MockExchangeService
	mockQuery    *MockExchangeQueryService
	mockLedger   *MockLedgerService
	mockCurrency *MockCurrencyService
	accountID    string
}

func (suite *ExchangeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockExchange = new(MockExchangeService)
	suite.mockQuery = new(MockExchangeQueryService)
	suite.mockLedger = new(MockLedgerService)
	suite.mockCurrency = new(MockCurrencyService)
	suite.accountID = uuid.NewString()

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Ledger:        suite.mockLedger,
		Exchange:      suite.mockExchange,
		ExchangeQuery: suite.mockQuery,
		Currency:      suite.mockCurrency,
	})
}

func (suite *ExchangeHandlerTestSuite) performExchange(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/"+suite.accountID+"/exchanges", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func exchangeBody(from, to, amountStr string) string {
	body, _ := json.Marshal(map[string]any{
		"fromCurrencyCode": from,
		"toCurrencyCode":   to,
		"fromAmount":       amountStr,
	})
	return string(body)
}

// --- Test Cases ---

func (suite *ExchangeHandlerTestSuite) TestPerformExchange_Success() {
	result := &domain.ExchangeResult{
		ExchangeRecord: domain.ExchangeRecord{
			ExchangeID:    uuid.NewString(),
			AccountID:     suite.accountID,
			FromAmount:    domain.NewAmount(decimal.RequireFromString("100.00")),
			Rate:          domain.NewRate(decimal.RequireFromString("0.5")),
			ToAmountGross: domain.NewAmount(decimal.RequireFromString("50.00")),
			FeeAmount:     domain.NewAmount(decimal.RequireFromString("0.25")),
			ToAmountNet:   domain.NewAmount(decimal.RequireFromString("49.75")),
		},
		FromCurrencyCode: "GOLD",
		ToCurrencyCode:   "SILVER",
	}

	suite.mockExchange.On("Exchange", mock.Anything, suite.accountID, "GOLD", "SILVER", mock.AnythingOfType("domain.Money")).
		Return(result, nil).Once()

	w := suite.performExchange(exchangeBody("GOLD", "SILVER", "100.00"))

	suite.Equal(http.StatusCreated, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(result.ExchangeID, resp["exchangeID"])
	suite.Equal("49.75", resp["toAmountNet"])
	suite.Equal("0.500000", resp["rate"])
	suite.mockExchange.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestPerformExchange_LowercaseCodesAreNormalized() {
	result := &domain.ExchangeResult{
		ExchangeRecord:   domain.ExchangeRecord{ExchangeID: uuid.NewString()},
		FromCurrencyCode: "GOLD",
		ToCurrencyCode:   "SILVER",
	}

	suite.mockExchange.On("Exchange", mock.Anything, suite.accountID, "GOLD", "SILVER", mock.AnythingOfType("domain.Money")).
		Return(result, nil).Once()

	w := suite.performExchange(exchangeBody("gold", "silver", "100.00"))

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockExchange.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestPerformExchange_UppercaseAccountIDIsCanonicalized() {
	result := &domain.ExchangeResult{
		ExchangeRecord:   domain.ExchangeRecord{ExchangeID: uuid.NewString(), AccountID: suite.accountID},
		FromCurrencyCode: "GOLD",
		ToCurrencyCode:   "SILVER",
	}

	// The service must see the canonical lower-case form, or downstream
	// balance lookups keyed by identifier would miss.
	suite.mockExchange.On("Exchange", mock.Anything, suite.accountID, "GOLD", "SILVER", mock.AnythingOfType("domain.Money")).
		Return(result, nil).Once()

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/accounts/"+strings.ToUpper(suite.accountID)+"/exchanges",
		bytes.NewBufferString(exchangeBody("GOLD", "SILVER", "100.00")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockExchange.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestPerformExchange_MalformedAccountID() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/not-a-uuid/exchanges",
		bytes.NewBufferString(exchangeBody("GOLD", "SILVER", "100.00")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("VALIDATION_ERROR", resp["code"])
	suite.mockExchange.AssertNotCalled(suite.T(), "Exchange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeHandlerTestSuite) TestPerformExchange_ErrorMapping() {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"same currency", apperrors.ErrSameCurrency, http.StatusBadRequest, "SAME_CURRENCY"},
		{"invalid amount", apperrors.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"net amount consumed by fee", apperrors.ErrNonPositiveNetAmount, http.StatusBadRequest, "NON_POSITIVE_NET_AMOUNT"},
		{"unknown currency", apperrors.ErrCurrencyNotFound, http.StatusNotFound, "CURRENCY_NOT_FOUND"},
		{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"concurrency conflict", apperrors.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"bank not configured", apperrors.ErrBankNotConfigured, http.StatusServiceUnavailable, "BANK_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.mockExchange.On("Exchange", mock.Anything, suite.accountID, "GOLD", "SILVER", mock.AnythingOfType("domain.Money")).
				Return(nil, tt.serviceErr).Once()

			w := suite.performExchange(exchangeBody("GOLD", "SILVER", "100.00"))

			suite.Equal(tt.wantStatus, w.Code)

			var resp map[string]any
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			suite.Equal(tt.wantCode, resp["code"])
			suite.mockExchange.AssertExpectations(suite.T())
		})
	}
}

func (suite *ExchangeHandlerTestSuite) TestPerformExchange_MalformedBody() {
	w := suite.performExchange(`{"fromCurrencyCode": "GOLD"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockExchange.AssertNotCalled(suite.T(), "Exchange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeHandlerTestSuite) TestPreviewExchange_Success() {
	breakdown := &domain.RateBreakdown{
		Rate:        domain.NewRate(decimal.RequireFromString("0.5")),
		GrossAmount: domain.NewAmount(decimal.RequireFromString("50.00")),
		FeeAmount:   domain.NewAmount(decimal.RequireFromString("0.25")),
		NetAmount:   domain.NewAmount(decimal.RequireFromString("49.75")),
	}

	suite.mockExchange.On("Preview", mock.Anything, "GOLD", "SILVER", mock.AnythingOfType("domain.Money")).
		Return(breakdown, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exchanges/preview", bytes.NewBufferString(exchangeBody("GOLD", "SILVER", "100.00")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("49.75", resp["netAmount"])
	suite.mockExchange.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestGetExchangeByID_NotFound() {
	exchangeID := uuid.NewString()
	suite.mockQuery.On("GetExchangeByID", mock.Anything, exchangeID).Return(nil, apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exchanges/"+exchangeID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestListExchanges_ForwardsFilterAndToken() {
	outToken := "next-cursor"
	page := []domain.ExchangeResult{
		{ExchangeRecord: domain.ExchangeRecord{ExchangeID: uuid.NewString()}, FromCurrencyCode: "GOLD", ToCurrencyCode: "SILVER"},
	}

	suite.mockQuery.On("ListExchanges", mock.Anything, mock.MatchedBy(func(f domain.ExchangeFilter) bool {
		return f.AccountID == suite.accountID && f.FromCurrencyCode == "GOLD" && !f.SortAsc
	}), 10, mock.Anything).Return(page, &outToken, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exchanges?accountID="+suite.accountID+"&fromCurrencyCode=GOLD&limit=10", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(outToken, resp["nextToken"])
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestListExchanges_DateToCoversTheWholeDay() {
	suite.mockQuery.On("ListExchanges", mock.Anything, mock.MatchedBy(func(f domain.ExchangeFilter) bool {
		if f.DateTo == nil {
			return false
		}
		lastInstant := time.Date(2026, 1, 15, 23, 59, 59, 999999999, time.UTC)
		return f.DateTo.Equal(lastInstant)
	}), mock.Anything, mock.Anything).Return([]domain.ExchangeResult{}, nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exchanges?dateTo=2026-01-15", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *ExchangeHandlerTestSuite) TestListExchanges_MalformedAccountID() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exchanges?accountID=not-a-uuid", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockQuery.AssertNotCalled(suite.T(), "ListExchanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeHandlerTestSuite) TestListExchanges_RejectsBadOrder() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exchanges?order=sideways", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockQuery.AssertNotCalled(suite.T(), "ListExchanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestExchangeHandler(t *testing.T) {
	suite.Run(t, new(ExchangeHandlerTestSuite))
}
