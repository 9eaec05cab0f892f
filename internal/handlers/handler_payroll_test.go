package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/dto"
	"github.com/sproutworks/nursery_erp_backend/internal/handlers"
	"github.com/sproutworks/nursery_erp_backend/internal/middleware"
)

// --- Mock PayrollService ---
type MockPayrollService struct {
	mock.Mock
}

func (m *MockPayrollService) GeneratePayroll(ctx context.Context, req dto.GeneratePayrollRequest, actorUserID string) (*dto.GeneratePayrollResponse, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GeneratePayrollResponse), args.Error(1)
}

func (m *MockPayrollService) ListPayrolls(ctx context.Context, params dto.ListPayrollsParams) (*dto.ListPayrollsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPayrollsResponse), args.Error(1)
}

func (m *MockPayrollService) GetPayrollDetails(ctx context.Context, payrollID string) (*dto.PayrollDetailsResponse, error) {
	args := m.Called(ctx, payrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayrollDetailsResponse), args.Error(1)
}

func (m *MockPayrollService) ApprovePayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.ApprovePayrollResponse, error) {
	args := m.Called(ctx, payrollID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApprovePayrollResponse), args.Error(1)
}

func (m *MockPayrollService) MarkPayrollPaid(ctx context.Context, payrollID string, actorUserID string) (*dto.PayPayrollResponse, error) {
	args := m.Called(ctx, payrollID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayPayrollResponse), args.Error(1)
}

func (m *MockPayrollService) HoldPayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.PayrollSummaryResponse, error) {
	args := m.Called(ctx, payrollID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayrollSummaryResponse), args.Error(1)
}

func (m *MockPayrollService) ReactivatePayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.PayrollSummaryResponse, error) {
	args := m.Called(ctx, payrollID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PayrollSummaryResponse), args.Error(1)
}

func (m *MockPayrollService) GetVoucher(ctx context.Context, voucherNo string) (*dto.VoucherResponse, error) {
	args := m.Called(ctx, voucherNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VoucherResponse), args.Error(1)
}

// --- Test Suite ---
type PayrollHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockPayrollService
	jwtSecret   string
	userID      string
}

func (suite *PayrollHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "nursery-erp-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *PayrollHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterBindingValidations())
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockService = new(MockPayrollService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterPayrollRoutes(v1, suite.mockService)
}

func (suite *PayrollHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *PayrollHandlerTestSuite) TestGeneratePayroll_Success() {
	expected := &dto.GeneratePayrollResponse{
		Month:          9,
		Year:           2025,
		GeneratedCount: 12,
		SkippedCount:   1,
		Errors: []dto.GenerationFailure{
			{EmployeeID: "emp-003", Reason: "payroll already generated for 2025-09"},
		},
	}

	suite.mockService.On("GeneratePayroll",
		mock.AnythingOfType("*context.valueCtx"),
		dto.GeneratePayrollRequest{Month: 9, Year: 2025},
		suite.userID,
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payrolls/generate", gin.H{"month": 9, "year": 2025})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.GeneratePayrollResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(12, resp.GeneratedCount)
	suite.Equal(1, resp.SkippedCount)
	suite.Len(resp.Errors, 1)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PayrollHandlerTestSuite) TestGeneratePayroll_BindingRejectsBadMonth() {
	w := suite.doRequest(http.MethodPost, "/api/v1/payrolls/generate", gin.H{"month": 13, "year": 2025})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "GeneratePayroll", mock.Anything, mock.Anything, mock.Anything)
}

// The plausible_year validator is a custom registration; binding must reject
// out-of-range years instead of panicking on an unknown tag.
func (suite *PayrollHandlerTestSuite) TestGeneratePayroll_BindingRejectsImplausibleYear() {
	w := suite.doRequest(http.MethodPost, "/api/v1/payrolls/generate", gin.H{"month": 9, "year": 1925})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "GeneratePayroll", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollHandlerTestSuite) TestGeneratePayroll_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/payrolls/generate", bytes.NewReader([]byte(`{"month":9,"year":2025}`)))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "GeneratePayroll", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollHandlerTestSuite) TestApprovePayroll_Success() {
	payrollID := uuid.NewString()
	expected := &dto.ApprovePayrollResponse{
		Record: dto.PayrollSummaryResponse{
			PayrollID: payrollID,
			NetSalary: decimal.NewFromInt(27200),
			Status:    "APPROVED",
		},
		VoucherNo: "JV/2025/000042",
	}

	suite.mockService.On("ApprovePayroll", mock.AnythingOfType("*context.valueCtx"), payrollID, suite.userID).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/payrolls/%s/approve", payrollID), nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ApprovePayrollResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("JV/2025/000042", resp.VoucherNo)
	suite.Equal("APPROVED", resp.Record.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PayrollHandlerTestSuite) TestApprovePayroll_ConflictMapsTo409() {
	payrollID := uuid.NewString()
	suite.mockService.On("ApprovePayroll", mock.AnythingOfType("*context.valueCtx"), payrollID, suite.userID).
		Return(nil, fmt.Errorf("%w: payroll is PAID", apperrors.ErrConflict)).Once()

	w := suite.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/payrolls/%s/approve", payrollID), nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PayrollHandlerTestSuite) TestApprovePayroll_PostingMapsTo422() {
	payrollID := uuid.NewString()
	suite.mockService.On("ApprovePayroll", mock.AnythingOfType("*context.valueCtx"), payrollID, suite.userID).
		Return(nil, fmt.Errorf("%w: voucher does not balance", apperrors.ErrPosting)).Once()

	w := suite.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/payrolls/%s/approve", payrollID), nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *PayrollHandlerTestSuite) TestGetPayrollDetails_NotFoundMapsTo404() {
	payrollID := uuid.NewString()
	suite.mockService.On("GetPayrollDetails", mock.AnythingOfType("*context.valueCtx"), payrollID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payrolls/"+payrollID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PayrollHandlerTestSuite) TestListPayrolls_QueryParamsBound() {
	expected := &dto.ListPayrollsResponse{Payrolls: []dto.PayrollSummaryResponse{}}

	suite.mockService.On("ListPayrolls",
		mock.AnythingOfType("*context.valueCtx"),
		dto.ListPayrollsParams{Status: "DRAFT", Month: 9, Year: 2025},
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payrolls?status=DRAFT&month=9&year=2025", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PayrollHandlerTestSuite) TestListPayrolls_InvalidStatusRejected() {
	w := suite.doRequest(http.MethodGet, "/api/v1/payrolls?status=PENDING", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListPayrolls", mock.Anything, mock.Anything)
}

func (suite *PayrollHandlerTestSuite) TestGetVoucher_Success() {
	voucherNo := "JV/2025/000042"
	expected := &dto.VoucherResponse{
		VoucherNo: voucherNo,
		Narration: "Salary for 2025-09, employee emp-001",
		Entries: []dto.JournalEntryResponse{
			{Account: "SALARY_EXPENSE", Side: "DEBIT", Amount: decimal.NewFromInt(30000)},
			{Account: "CASH_BANK", Side: "CREDIT", Amount: decimal.NewFromInt(27200)},
			{Account: "STATUTORY_PAYABLES", Side: "CREDIT", Amount: decimal.NewFromInt(2800)},
		},
	}

	suite.mockService.On("GetVoucher", mock.AnythingOfType("*context.valueCtx"), voucherNo).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/vouchers/JV/2025/000042", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(voucherNo, resp.VoucherNo)
	suite.Len(resp.Entries, 3)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PayrollHandlerTestSuite) TestHoldPayroll_Success() {
	payrollID := uuid.NewString()
	expected := &dto.PayrollSummaryResponse{PayrollID: payrollID, Status: "HOLD"}

	suite.mockService.On("HoldPayroll", mock.AnythingOfType("*context.valueCtx"), payrollID, suite.userID).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/payrolls/%s/hold", payrollID), nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.PayrollSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("HOLD", resp.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func TestPayrollHandler(t *testing.T) {
	suite.Run(t, new(PayrollHandlerTestSuite))
}
