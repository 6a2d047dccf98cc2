package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/handler"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/baramej/library-system/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/baramej/library-system/library/internal/handler/mocks"
)

func newTestHandler(t *testing.T) (*handler.Handler, *service_mocks.MockCatalogService, *service_mocks.MockLoanService, *service_mocks.MockCheckoutService) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	catalogSvc := service_mocks.NewMockCatalogService(c)
	memberSvc := service_mocks.NewMockMemberService(c)
	loanSvc := service_mocks.NewMockLoanService(c)
	checkoutSvc := service_mocks.NewMockCheckoutService(c)
	jobSvc := service_mocks.NewMockJobService(c)
	reservationSvc := service_mocks.NewMockReservationService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(catalogSvc, memberSvc, loanSvc, checkoutSvc, jobSvc, reservationSvc, log)
	return h, catalogSvc, loanSvc, checkoutSvc
}

func TestHandler_GetLoan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService, reference string)

	var tests = []struct {
		name         string
		reference    string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:      "ok",
			reference: "LN-00042",
			mockBehavior: func(r *service_mocks.MockLoanService, reference string) {
				r.EXPECT().
					GetLoan(context.Background(), reference).
					Return(model.Loan{
						Reference:  "LN-00042",
						MemberNo:   "MBR-0007",
						MemberName: "Ada Lovelace",
						BookUid:    "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookName:   "The Pragmatic Programmer",
						BorrowDate: model.NewDate(2026, time.January, 10),
						DueDate:    model.NewDate(2026, time.January, 24),
						State:      model.LoanStateBorrowed,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reference":"LN-00042","staffId":null,"memberId":"MBR-0007","memberName":"Ada Lovelace","bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookName":"The Pragmatic Programmer","borrowDate":"2026-01-10","dueDate":"2026-01-24","returnDate":null,"state":"borrowed","dueReminderSent":false,"overdueReminderSent":false,"borrowDuration":0,"isOverdue":false,"overdueDays":0,"fineAmount":0}`,
			},
		},
		{
			name:      "err. not found",
			reference: "LN-99999",
			mockBehavior: func(r *service_mocks.MockLoanService, reference string) {
				r.EXPECT().
					GetLoan(context.Background(), reference).
					Return(model.Loan{}, errors.Wrapf(errs.ErrNotFound, "loan %q", reference))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"loan \"LN-99999\": not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _, loanSvc, _ := newTestHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/loans/:reference", h.GetLoan)

			r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/loans/%s", tt.reference), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(loanSvc, tt.reference)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"memberId":"MBR-0007","bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","state":"borrowed"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{
						MemberID: "MBR-0007",
						BookUid:  "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						State:    model.LoanStateBorrowed,
					}).
					Return(model.Loan{
						Reference:  "LN-00043",
						MemberNo:   "MBR-0007",
						MemberName: "Ada Lovelace",
						BookUid:    "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookName:   "The Pragmatic Programmer",
						BorrowDate: model.NewDate(2026, time.February, 1),
						DueDate:    model.NewDate(2026, time.February, 15),
						State:      model.LoanStateBorrowed,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"reference":"LN-00043","staffId":null,"memberId":"MBR-0007","memberName":"Ada Lovelace","bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookName":"The Pragmatic Programmer","borrowDate":"2026-02-01","dueDate":"2026-02-15","returnDate":null,"state":"borrowed","dueReminderSent":false,"overdueReminderSent":false,"borrowDuration":0,"isOverdue":false,"overdueDays":0,"fineAmount":0}`,
			},
		},
		{
			name:         "err. memberId required",
			body:         `{"bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"code=400, message=Key: 'CreateLoanRequest.MemberID' Error:Field validation for 'MemberID' failed on the 'required' tag"}`,
			},
		},
		{
			name: "err. loan limit reached",
			body: `{"memberId":"MBR-0007","bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{
						MemberID: "MBR-0007",
						BookUid:  "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
					}).
					Return(model.Loan{}, errors.Wrap(errs.ErrPolicyViolation, "member MBR-0007 has reached the concurrent loan limit"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"member MBR-0007 has reached the concurrent loan limit: policy violation"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _, loanSvc, _ := newTestHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/loans", h.CreateLoan)

			r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(loanSvc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ProcessScan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCheckoutService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok. auto resolves to borrow",
			body: `{"memberBarcode":"M123","bookBarcode":"B456","operation":"auto"}`,
			mockBehavior: func(r *service_mocks.MockCheckoutService) {
				r.EXPECT().
					ProcessScan(context.Background(), model.ScanRequest{
						MemberBarcode: "M123",
						BookBarcode:   "B456",
						Operation:     model.ScanAuto,
					}).
					Return(model.ScanResult{
						Operation: model.ScanBorrow,
						Message:   "Book Borrowed Successfully!",
						Loan: model.Loan{
							Reference:  "LN-00044",
							MemberNo:   "MBR-0007",
							MemberName: "Ada Lovelace",
							BookUid:    "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
							BookName:   "The Pragmatic Programmer",
							BorrowDate: model.NewDate(2026, time.March, 1),
							DueDate:    model.NewDate(2026, time.March, 15),
							State:      model.LoanStateBorrowed,
						},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"operation":"borrow","message":"Book Borrowed Successfully!","loan":{"reference":"LN-00044","staffId":null,"memberId":"MBR-0007","memberName":"Ada Lovelace","bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookName":"The Pragmatic Programmer","borrowDate":"2026-03-01","dueDate":"2026-03-15","returnDate":null,"state":"borrowed","dueReminderSent":false,"overdueReminderSent":false,"borrowDuration":0,"isOverdue":false,"overdueDays":0,"fineAmount":0}}`,
			},
		},
		{
			name:         "err. bookBarcode required",
			body:         `{"memberBarcode":"M123"}`,
			mockBehavior: func(r *service_mocks.MockCheckoutService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"code=400, message=Key: 'ScanRequest.BookBarcode' Error:Field validation for 'BookBarcode' failed on the 'required' tag"}`,
			},
		},
		{
			name: "err. unknown member barcode",
			body: `{"memberBarcode":"NOPE","bookBarcode":"B456"}`,
			mockBehavior: func(r *service_mocks.MockCheckoutService) {
				r.EXPECT().
					ProcessScan(context.Background(), model.ScanRequest{
						MemberBarcode: "NOPE",
						BookBarcode:   "B456",
					}).
					Return(model.ScanResult{}, errors.Wrap(errs.ErrNotFound, `member barcode "NOPE"`))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"member barcode \"NOPE\": not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _, _, checkoutSvc := newTestHandler(t)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/scan", h.ProcessScan)

			r := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(checkoutSvc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetBookByBarcode(t *testing.T) {
	t.Parallel()
	h, catalogSvc, _, _ := newTestHandler(t)

	catalogSvc.EXPECT().
		GetBookByBarcode(context.Background(), "B456").
		Return(model.Book{}, errors.Wrap(errs.ErrNotFound, `book barcode "B456"`))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/books/barcode/:barcode", h.GetBookByBarcode)

	r := httptest.NewRequest(http.MethodGet, "/books/barcode/B456", http.NoBody)
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, `{"message":"book barcode \"B456\": not found"}`, strings.Trim(w.Body.String(), "\n"))
}
