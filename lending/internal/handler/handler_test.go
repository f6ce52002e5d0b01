package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/handler"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/golang/mock/gomock"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-lending/lending/internal/handler/mocks"
)

const (
	loanUid  = "9b4c1a52-2f0b-4ad2-9d0e-3c1b8f3c5a11"
	titleUid = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
)

var borrowedAt = time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

func loanOf(user string) model.LoanInfo {
	return model.NewLoanInfo(model.Loan{
		ID:         loanUid,
		UserID:     user,
		TitleID:    titleUid,
		BorrowedAt: borrowedAt,
		DueAt:      borrowedAt.Add(14 * 24 * time.Hour),
		State:      model.StatusBorrowed,
	}, borrowedAt)
}

type request struct {
	method string
	target string
	body   string
	user   string
	role   string
}

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(r *service_mocks.MockLendingService)

func serve(t *testing.T, behavior mockBehavior, req request) *httptest.ResponseRecorder {
	t.Helper()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLendingService(c)
	behavior(svc)
	h := handler.New(svc, zap.NewExample().Named("test"))

	r := httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if req.user != "" {
		r.Header.Set(auth.XUserNameHeader, req.user)
	}
	if req.role != "" {
		r.Header.Set(auth.XUserRoleHeader, req.role)
	}
	w := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(w, r)
	return w
}

func TestHandler_Borrow(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Borrow(gomock.Any(), "alice", titleUid, &due, "gift").
					Return(loanOf("alice"), nil)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `","dueDate":"2024-04-10T00:00:00Z","notes":"gift"}`,
				user:   "alice",
			},
			response: response{expectedCode: http.StatusCreated},
		},
		{
			name: "staff borrows for a member",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Borrow(gomock.Any(), "bob", titleUid, gomock.Nil(), "").
					Return(loanOf("bob"), nil)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `","userId":"bob"}`,
				user:   "linus",
				role:   auth.RoleLibrarian,
			},
			response: response{expectedCode: http.StatusCreated},
		},
		{
			name:         "err. member borrows for someone else",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `","userId":"bob"}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"acting for another user requires staff role"}`,
			},
		},
		{
			name:         "err. title required",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"notes":"x"}`,
				user:   "alice",
			},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name:         "err. no user",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `"}`,
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"user-name is empty"}`,
			},
		},
		{
			name: "err. limit exceeded",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Borrow(gomock.Any(), "alice", titleUid, gomock.Nil(), "").
					Return(model.LoanInfo{}, errs.ErrLimitExceeded)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `"}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"borrow limit exceeded"}`,
			},
		},
		{
			name: "err. invalid due date",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Borrow(gomock.Any(), "alice", titleUid, gomock.Any(), "").
					Return(model.LoanInfo{}, errors.Wrap(errs.ErrInvalidDueDate, "due date exceeds 30 days"))
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `","dueDate":"2030-01-01T00:00:00Z"}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"due date exceeds 30 days: invalid due date"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Borrow(gomock.Any(), "alice", titleUid, gomock.Nil(), "").
					Return(model.LoanInfo{}, errors.New("db internal"))
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans",
				body:   `{"titleUid":"` + titleUid + `"}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, tt.request)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
			if w.Code == http.StatusCreated {
				var got model.LoanInfo
				require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &got))
				require.Equal(t, loanUid, got.ID)
				require.Equal(t, model.StatusBorrowed, got.Status)
			}
		})
	}
}

func TestHandler_LoanActions(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "get own loan",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(loanOf("alice"), nil)
			},
			request:  request{method: http.MethodGet, target: "/api/v1/loans/" + loanUid, user: "alice"},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "err. someone else's loan",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(loanOf("bob"), nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/loans/" + loanUid, user: "alice"},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"loan belongs to another user"}`,
			},
		},
		{
			name: "err. loan not found",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(model.LoanInfo{}, errs.ErrNotFound)
			},
			request: request{method: http.MethodGet, target: "/api/v1/loans/" + loanUid, user: "alice"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "return",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(loanOf("alice"), nil)
				r.EXPECT().
					ReturnBook(gomock.Any(), loanUid, model.ConditionDamaged, model.Money(0), "spine cracked").
					Return(model.ReturnResult{Loan: loanOf("alice"), FineCharged: 50000}, nil)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans/" + loanUid + "/return",
				body:   `{"condition":"damaged","notes":"spine cracked"}`,
				user:   "alice",
			},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name:         "err. bad condition",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans/" + loanUid + "/return",
				body:   `{"condition":"soggy"}`,
				user:   "alice",
			},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name:         "err. member charges additional fine",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans/" + loanUid + "/return",
				body:   `{"condition":"good","additionalFine":100}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"only staff may charge an additional fine"}`,
			},
		},
		{
			name:         "err. member returns as lost",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans/" + loanUid + "/return",
				body:   `{"condition":"lost"}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"only staff may declare a copy lost"}`,
			},
		},
		{
			name: "librarian returns as lost",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(loanOf("alice"), nil)
				r.EXPECT().
					ReturnBook(gomock.Any(), loanUid, model.ConditionLost, model.Money(0), "").
					Return(model.ReturnResult{FineCharged: 200000}, nil)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans/" + loanUid + "/return",
				body:   `{"condition":"lost"}`,
				user:   "linus",
				role:   auth.RoleLibrarian,
			},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "err. already returned",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(loanOf("alice"), nil)
				r.EXPECT().
					ReturnBook(gomock.Any(), loanUid, model.ConditionGood, model.Money(0), "").
					Return(model.ReturnResult{}, errs.ErrAlreadyReturned)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/loans/" + loanUid + "/return",
				body:   `{"condition":"good"}`,
				user:   "alice",
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"loan already returned"}`,
			},
		},
		{
			name: "err. renewal limit",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().GetLoan(gomock.Any(), loanUid).Return(loanOf("alice"), nil)
				r.EXPECT().Renew(gomock.Any(), loanUid).Return(model.LoanInfo{}, errs.ErrRenewalLimitExceeded)
			},
			request: request{method: http.MethodPost, target: "/api/v1/loans/" + loanUid + "/renew", user: "alice"},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"renewal limit exceeded"}`,
			},
		},
		{
			name:         "err. member marks lost",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/loans/" + loanUid + "/lost", user: "alice"},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"librarian or admin role required"}`,
			},
		},
		{
			name: "librarian marks lost",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					MarkLost(gomock.Any(), loanUid, "").
					Return(model.ReturnResult{FineCharged: 200000}, nil)
			},
			request:  request{method: http.MethodPost, target: "/api/v1/loans/" + loanUid + "/lost", user: "linus", role: auth.RoleLibrarian},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name:         "err. librarian adjusts fine",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPatch,
				target: "/api/v1/loans/" + loanUid + "/fine",
				body:   `{"delta":-5000,"notes":"waived"}`,
				user:   "linus",
				role:   auth.RoleLibrarian,
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"admin role required"}`,
			},
		},
		{
			name: "admin adjusts fine",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					AdjustFine(gomock.Any(), loanUid, model.Money(-5000), "waived").
					Return(loanOf("alice"), nil)
			},
			request: request{
				method: http.MethodPatch,
				target: "/api/v1/loans/" + loanUid + "/fine",
				body:   `{"delta":-5000,"notes":"waived"}`,
				user:   "root",
				role:   auth.RoleAdmin,
			},
			response: response{expectedCode: http.StatusOK},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, tt.request)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_Inventory(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "availability",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Availability(gomock.Any(), titleUid).Return(model.Availability{
					TitleID: titleUid, TotalCopies: 3, AvailableCopies: 1, OnLoan: 2, Active: true,
				}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/titles/" + titleUid + "/availability", user: "alice"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"titleUid":"` + titleUid + `","totalCopies":3,"availableCopies":1,"onLoan":2,"active":true}`,
			},
		},
		{
			name: "err. copies below on-loan",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().SetTotalCopies(gomock.Any(), titleUid, 1).Return(model.Availability{}, errs.ErrInvalidQuantity)
			},
			request: request{
				method: http.MethodPut,
				target: "/api/v1/titles/" + titleUid + "/copies",
				body:   `{"totalCopies":1}`,
				user:   "linus",
				role:   auth.RoleLibrarian,
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid quantity"}`,
			},
		},
		{
			name:         "err. copies missing",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request: request{
				method: http.MethodPut,
				target: "/api/v1/titles/" + titleUid + "/copies",
				body:   `{}`,
				user:   "linus",
				role:   auth.RoleLibrarian,
			},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "err. over-release is a server error",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().SetTotalCopies(gomock.Any(), titleUid, 4).Return(model.Availability{}, errs.ErrInvariant)
			},
			request: request{
				method: http.MethodPut,
				target: "/api/v1/titles/" + titleUid + "/copies",
				body:   `{"totalCopies":4}`,
				user:   "root",
				role:   auth.RoleAdmin,
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"inventory invariant violated"}`,
			},
		},
		{
			name: "own fines",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().ListFines(gomock.Any(), "alice").Return([]model.Fine{}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/fines", user: "alice"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
		},
		{
			name: "staff lists loans of a member",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().ListLoans(gomock.Any(), "bob").Return([]model.LoanInfo{}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/loans?userId=bob", user: "linus", role: auth.RoleLibrarian},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
		},
		{
			name:         "err. member reads stats",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request:      request{method: http.MethodGet, target: "/api/v1/stats", user: "alice"},
			response:     response{expectedCode: http.StatusForbidden},
		},
		{
			name: "admin reads stats",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Stats(gomock.Any()).Return(model.Stats{Titles: 2, Popular: []model.PopularTitle{}}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/stats", user: "root", role: auth.RoleAdmin},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"titles":2,"totalCopies":0,"availableCopies":0,"onLoan":0,"openLoans":0,"overdueLoans":0,"unpaidFines":0,"popular":[]}`,
			},
		},
		{
			name:         "health",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			request:      request{method: http.MethodGet, target: "/manage/health"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `OK`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, tt.request)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
