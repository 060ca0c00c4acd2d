package api

import (
	"log/slog"
	"net/http"

	reqdto "payment-reconciler/internal/handler/dto/request"
	resdto "payment-reconciler/internal/handler/dto/response"
	"payment-reconciler/internal/handler/httperr"
	"payment-reconciler/internal/handler/middleware"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.IntentCommands
	q    queries.IntentQueries
}

func NewPaymentHandler(cmds commands.IntentCommands, q queries.IntentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Create payment intent
// @Description Create a gateway payment intent for a plan purchase. Repeating a reference returns the same intent.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateIntentRequest true "Create intent request"
// @Success 201 {object} resdto.IntentHandleResponse
// @Success 200 {object} resdto.IntentHandleResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /payments/intents [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	handle, err := h.cmds.CreateIntent(c.Request.Context(), req.ToParams(userID))
	if err != nil {
		abortWithCommandError(c, err, "Create payment intent failed")
		return
	}

	status := http.StatusCreated
	if handle.IsReplayed {
		status = http.StatusOK
	}
	c.Header("Location", "/api/payments/intents/"+handle.IntentID)
	c.JSON(status, resdto.FromIntentHandle(handle))
}

// @Summary Verify payment
// @Description Re-read the intent from the gateway, reconcile it locally and report the caller-visible outcome
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyIntentRequest true "Verify request"
// @Success 200 {object} resdto.PaymentOutcomeResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /payments/verify [post]
func (h *PaymentHandler) VerifyIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.VerifyIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	outcome, err := h.cmds.VerifyIntent(c.Request.Context(), req.ToParams(userID))
	if err != nil {
		abortWithCommandError(c, err, "Verify payment failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentOutcome(outcome))
}

// @Summary Get payment intent
// @Description Get the caller's payment intent from the local store
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Intent ID"
// @Success 200 {object} resdto.IntentResponse
// @Failure 404 {object} httperr.Response
// @Router /payments/intents/{id} [get]
func (h *PaymentHandler) GetIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	view, err := h.q.GetIntent(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errs.Is(err, queries.ErrIntentNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment intent not found", nil)
			return
		}
		slog.Error("get payment intent failed", "error", err)
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromIntentView(view))
}

// @Summary Payment history
// @Description List the caller's payment intents newest first with keyset pagination
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20, max 100)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.IntentHistoryResponse
// @Failure 400 {object} httperr.Response
// @Router /payments/history [get]
func (h *PaymentHandler) ListHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var q reqdto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	items, next, err := h.q.ListHistory(c.Request.Context(), userID, q.Cursor(), q.Limit)
	if err != nil {
		if errs.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		slog.Error("list payment history failed", "error", err)
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromIntentHistory(items, next))
}

func abortWithCommandError(c *gin.Context, err error, fallback string) {
	switch {
	case errs.Is(err, commands.ErrInvalidRequest):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment request", nil)
	case errs.Is(err, commands.ErrIntentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment intent not found", nil)
	case errs.Is(err, commands.ErrAmountExceedsExpected):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Paid amount exceeds expected amount", nil)
	case errs.Is(err, commands.ErrCurrencyMismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Paid currency differs from intent currency", nil)
	case errs.Is(err, commands.ErrReconcileConflict):
		httperr.AbortRetryable(c, http.StatusConflict, err, "Payment changed concurrently, retry")
	case errs.Is(err, commands.ErrGatewayUnavailable):
		httperr.AbortRetryable(c, http.StatusServiceUnavailable, err, "Payment gateway unavailable")
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "error", errs.Redact(err))
		httperr.AbortRetryable(c, http.StatusInternalServerError, err, "Internal error")
	}
}
