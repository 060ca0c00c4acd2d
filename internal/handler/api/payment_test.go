//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/handler/api"
	reqdto "payment-reconciler/internal/handler/dto/request"
	resdto "payment-reconciler/internal/handler/dto/response"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/queries"
	"payment-reconciler/tests/common/builder"
	"payment-reconciler/tests/common/httptest"
	"payment-reconciler/tests/common/testutil"
	commandsmock "payment-reconciler/tests/mock/commands"
	queriesmock "payment-reconciler/tests/mock/queries"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockIntentCommands
	mockQueries  *queriesmock.MockIntentQueries
	handler      *api.PaymentHandler
	userID       uuid.UUID
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	reqdto.RegisterValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockIntentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockIntentQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.POST("/payments/intents", authMiddleware, s.handler.CreateIntent)
	s.router.GET("/payments/intents/:id", authMiddleware, s.handler.GetIntent)
	s.router.POST("/payments/verify", authMiddleware, s.handler.VerifyIntent)
	s.router.GET("/payments/history", authMiddleware, s.handler.ListHistory)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

type testCasePayment struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreateIntent
// ================================================================================

func (s *PaymentHandlerTestSuite) TestCreateIntent() {
	url := "/payments/intents"
	b := builder.NewIntentBuilder()
	reqBody := b.BuildCreateRequestDTO()
	handle := &commands.IntentHandle{
		IntentID:         b.ID,
		ClientSecret:     b.ID + "_secret_test",
		Reference:        b.Reference,
		Status:           payment.StatusCreated,
		AmountMinorUnits: b.Amount,
		Currency:         b.Currency,
	}

	bound := []testCasePayment{
		{name: "amount boundary OK (1)", mutate: testutil.Field("amount", 1), expectCode: http.StatusCreated},
		{name: "amount boundary invalid (0)", mutate: testutil.Field("amount", 0), expectCode: http.StatusBadRequest},
		{name: "amount negative", mutate: testutil.Field("amount", -5), expectCode: http.StatusBadRequest},
		{name: "reference length OK (64 chars)", mutate: testutil.Field("reference", strings.Repeat("a", 64)), expectCode: http.StatusCreated},
		{name: "reference length invalid (65 chars)", mutate: testutil.Field("reference", strings.Repeat("a", 65)), expectCode: http.StatusBadRequest},
		{name: "reference with illegal characters", mutate: testutil.Field("reference", "R1 ; drop"), expectCode: http.StatusBadRequest},
		{name: "planName length invalid (129 chars)", mutate: testutil.Field("metadata.planName", strings.Repeat("p", 129)), expectCode: http.StatusBadRequest},
	}

	invalid := []testCasePayment{
		{name: "unknown currency", mutate: testutil.Field("currency", "XYZ"), expectCode: http.StatusBadRequest},
		{name: "malformed email", mutate: testutil.Field("userEmail", "not-an-email"), expectCode: http.StatusBadRequest},
		{name: "unknown period", mutate: testutil.Field("metadata.period", "weekly"), expectCode: http.StatusBadRequest},
		{name: "yearly period accepted", mutate: testutil.Field("metadata.period", "yearly"), expectCode: http.StatusCreated},
	}

	missing := []testCasePayment{
		{name: "missing field: amount (required)", mutate: testutil.Field("amount", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: currency (required)", mutate: testutil.Field("currency", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: userEmail (required)", mutate: testutil.Field("userEmail", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: metadata.planId (required)", mutate: testutil.Field("metadata.planId", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: reference (optional)", mutate: testutil.Field("reference", nil), expectCode: http.StatusCreated},
	}

	allValidationTestCases := [][]testCasePayment{bound, invalid, missing}

	s.Run("success: returns 201 with client secret and intent id", func() {
		s.mockCommands.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, params commands.CreateIntentParams) (*commands.IntentHandle, error) {
				s.Equal(s.userID, params.OwnerID)
				s.Equal(b.Reference, params.Reference)
				s.Equal(b.Amount, params.AmountMinorUnits)
				return handle, nil
			}).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.IntentHandleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(b.ID, body.IntentID)
		s.Equal(handle.ClientSecret, body.ClientSecret)
		s.False(body.Replayed)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/payments/intents/" + b.ID})
	})

	s.Run("success: replayed reference returns 200", func() {
		replayed := *handle
		replayed.IsReplayed = true
		s.mockCommands.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(&replayed, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.IntentHandleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Replayed)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, testCaseGroup := range allValidationTestCases {
			for _, tc := range testCaseGroup {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

					if tc.expectCode == http.StatusCreated {
						s.mockCommands.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
							Return(handle, nil).Times(1)
					}
					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
					s.Equal(tc.expectCode, rec.Code, rec.Body.String())
				})
			}
		}
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: use case failures map to status codes", func() {
		cases := []struct {
			name      string
			err       error
			code      int
			retryable bool
			message   string
		}{
			{name: "invalid request", err: errors.Wrap(commands.ErrInvalidRequest, "reference already used for a different payment"), code: http.StatusBadRequest, message: "Invalid payment request"},
			{
				name:    "gateway rejected the parameters",
				err:     errs.Mark(errs.Wrap(errors.New(`{"code":"parameter_invalid_integer","param":"amount"}`), "create gateway intent"), commands.ErrInvalidRequest),
				code:    http.StatusBadRequest,
				message: "Invalid payment request",
			},
			{
				name:      "gateway outage",
				err:       errs.Mark(errs.Wrap(errors.New("dial tcp: timeout"), "create gateway intent"), commands.ErrGatewayUnavailable),
				code:      http.StatusServiceUnavailable,
				retryable: true,
				message:   "Payment gateway unavailable",
			},
			{name: "gateway outage wrapped again", err: errs.Wrap(errs.Mark(errors.New("EOF"), commands.ErrGatewayUnavailable), "create intent"), code: http.StatusServiceUnavailable, retryable: true},
			{name: "unexpected failure", err: errors.New("boom"), code: http.StatusInternalServerError, retryable: true, message: "Internal error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

				httptest.AssertFailure(s.T(), rec, tc.code, tc.retryable)
				body := httptest.AssertErrorResponse(s.T(), rec, tc.code, tc.message)
				s.NotContains(body.Error.Message, "dial tcp")
				s.NotContains(body.Error.Message, "parameter_invalid")
			})
		}
	})
}

// ================================================================================
// TestVerifyIntent
// ================================================================================

func (s *PaymentHandlerTestSuite) TestVerifyIntent() {
	url := "/payments/verify"
	b := builder.NewIntentBuilder()
	reqBody := reqdto.VerifyIntentRequest{IntentID: b.ID, ExpectedAmount: b.Amount}

	s.Run("success: internal status is collapsed for the caller", func() {
		s.mockCommands.EXPECT().VerifyIntent(gomock.Any(), commands.VerifyIntentParams{
			IntentID:       b.ID,
			ExpectedAmount: b.Amount,
			OwnerID:        s.userID,
		}).Return(&commands.PaymentOutcome{
			IntentID:         b.ID,
			Status:           payment.StatusCanceled,
			AmountMinorUnits: b.Amount,
			Currency:         b.Currency,
		}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.PaymentOutcomeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("failed", body.Status)
		s.Equal(b.Amount, body.Amount)
		s.False(body.Retryable)
	})

	s.Run("success: pending outcome is retryable", func() {
		s.mockCommands.EXPECT().VerifyIntent(gomock.Any(), gomock.Any()).Return(&commands.PaymentOutcome{
			IntentID:  b.ID,
			Status:    payment.StatusPending,
			Retryable: true,
		}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.PaymentOutcomeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("pending", body.Status)
		s.True(body.Retryable)
	})

	s.Run("error: 400 on missing fields", func() {
		for _, field := range []string{"intentId", "expectedAmount"} {
			requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field(field, nil))
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
			s.Equal(http.StatusBadRequest, rec.Code, field)
		}
	})

	s.Run("error: use case failures map to status codes", func() {
		storeMiss := errors.New("payment intent not found: no rows in result set")
		cases := []struct {
			name      string
			err       error
			code      int
			retryable bool
			message   string
		}{
			{name: "unknown intent", err: commands.ErrIntentNotFound, code: http.StatusNotFound},
			{name: "unknown intent from the store", err: errs.Mark(storeMiss, commands.ErrIntentNotFound), code: http.StatusNotFound, message: "Payment intent not found"},
			{name: "unknown intent at the gateway", err: errs.Mark(errs.Wrap(errors.New("resource_missing"), "get gateway intent"), commands.ErrIntentNotFound), code: http.StatusNotFound},
			{name: "overpayment", err: commands.ErrAmountExceedsExpected, code: http.StatusUnprocessableEntity, message: "Paid amount exceeds expected amount"},
			{name: "currency mismatch", err: commands.ErrCurrencyMismatch, code: http.StatusUnprocessableEntity, message: "Paid currency differs from intent currency"},
			{name: "lost the race", err: errs.Mark(errors.New("payment intent sequence moved"), commands.ErrReconcileConflict), code: http.StatusConflict, retryable: true},
			{name: "gateway outage", err: errs.Mark(errors.New("i/o timeout"), commands.ErrGatewayUnavailable), code: http.StatusServiceUnavailable, retryable: true},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().VerifyIntent(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

				httptest.AssertFailure(s.T(), rec, tc.code, tc.retryable)
				httptest.AssertErrorResponse(s.T(), rec, tc.code, tc.message)
			})
		}
	})
}

// ================================================================================
// TestGetIntent / TestListHistory
// ================================================================================

func (s *PaymentHandlerTestSuite) TestGetIntent() {
	view := builder.NewIntentBuilder().WithStatus(payment.StatusPending, 2).BuildView()

	s.Run("success: returns the view", func() {
		s.mockQueries.EXPECT().GetIntent(gomock.Any(), view.ID, s.userID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/intents/"+view.ID, nil, "bearer-token")

		var body resdto.IntentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal(view.AmountMinorUnits, body.Amount)
		s.Equal("pending", body.Status)
		s.Equal("plan_pro", body.Metadata["planId"])
	})

	s.Run("error: 404 when not visible", func() {
		s.mockQueries.EXPECT().GetIntent(gomock.Any(), "pi_other", s.userID).Return(nil, queries.ErrIntentNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/intents/pi_other", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}

func (s *PaymentHandlerTestSuite) TestListHistory() {
	views := []*queries.IntentView{
		builder.NewIntentBuilder().BuildView(),
		builder.NewIntentBuilder().BuildView(),
	}

	s.Run("success: passes cursor and limit through", func() {
		s.mockQueries.EXPECT().
			ListHistory(gomock.Any(), s.userID, &queries.Cursor{After: "abc"}, 2).
			Return(views, &queries.Cursor{After: "next"}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/history?limit=2&after=abc", nil, "bearer-token")

		var body resdto.IntentHistoryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Equal("next", body.NextCursor)
	})

	s.Run("success: first page without cursor", func() {
		s.mockQueries.EXPECT().ListHistory(gomock.Any(), s.userID, (*queries.Cursor)(nil), 0).Return(nil, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/history", nil, "bearer-token")

		var body resdto.IntentHistoryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Items)
		s.Empty(body.NextCursor)
	})

	s.Run("error: 400 on limit out of range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/history?limit=500", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 on bad cursor", func() {
		s.mockQueries.EXPECT().ListHistory(gomock.Any(), s.userID, gomock.Any(), 0).Return(nil, nil, queries.ErrInvalidCursor).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/history?after=%25%25", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})
}
