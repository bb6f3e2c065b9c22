package loans

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/pkg/utils"
)

func NewMock(t *testing.T) (*LoanHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func TestCreateLoanHandler(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful creation",
			body: `{"accountId":"acc-1","principal":12000,"annualRatePercent":12,"tenorMonths":12}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), "acc-1", 12000.0, 12.0, 12).
					Return(&domain.Loan{
						ID:                "loan-1",
						AccountID:         "acc-1",
						Principal:         12000,
						AnnualRatePercent: 12,
						TenorMonths:       12,
						Status:            domain.LoanStatusPending,
					}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name: "Account not found",
			body: `{"accountId":"missing","principal":12000,"annualRatePercent":12,"tenorMonths":12}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), "missing", 12000.0, 12.0, 12).
					Return(nil, errs.New(errs.KindNotFound, "account missing not found"))
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "account missing not found",
		},
		{
			name: "Invalid principal",
			body: `{"accountId":"acc-1","principal":-5,"annualRatePercent":12,"tenorMonths":12}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), "acc-1", -5.0, 12.0, 12).
					Return(nil, errs.New(errs.KindValidation, "principal must be positive"))
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "principal must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := httptest.NewRequest("POST", "/api/loans", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.CreateLoan(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestApproveLoanHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Successful approval",
			prepareMock: func(service *MockService) {
				service.EXPECT().Approve(gomock.Any(), "loan-1").
					Return(&domain.Loan{ID: "loan-1", Status: domain.LoanStatusApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Loan already active",
			prepareMock: func(service *MockService) {
				service.EXPECT().Approve(gomock.Any(), "loan-1").
					Return(nil, errs.New(errs.KindConflict, "loan cannot be approved from status ACTIVE"))
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := newRequestWithURLParam("POST", "/api/loans/loan-1/approve", "id", "loan-1")
			rr := httptest.NewRecorder()

			handler.ApproveLoan(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestGetSchedulesHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Schedules(gomock.Any(), "loan-1").
		Return([]domain.RepaymentSchedule{
			{ID: "sch-1", InstallmentNumber: 1, PrincipalAmount: 946.19, InterestAmount: 120},
			{ID: "sch-2", InstallmentNumber: 2, PrincipalAmount: 955.65, InterestAmount: 110.54},
		}, nil)

	req := newRequestWithURLParam("GET", "/api/loans/loan-1/schedules", "id", "loan-1")
	rr := httptest.NewRecorder()

	handler.GetSchedules(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []dto.ScheduleResponseDTO
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, 946.19, resp[0].PrincipalAmount)
}

func newRequestWithURLParam(method, url, key, value string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
