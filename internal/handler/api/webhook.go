package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	resdto "payment-reconciler/internal/handler/dto/response"
	"payment-reconciler/internal/handler/httperr"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	cmds            commands.WebhookCommands
	signatureHeader string
	maxBodyBytes    int64
}

func NewWebhookHandler(cmds commands.WebhookCommands, signatureHeader string, maxBodyBytes int64) *WebhookHandler {
	if signatureHeader == "" {
		signatureHeader = "Stripe-Signature"
	}
	return &WebhookHandler{cmds: cmds, signatureHeader: signatureHeader, maxBodyBytes: maxBodyBytes}
}

// @Summary Gateway webhook
// @Description Receive a signed gateway event. The body is verified byte for byte, so it must not be re-encoded.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Gateway signature header"
// @Success 200 {object} resdto.WebhookAckResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 413 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /payments/webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.AbortWithError(c, http.StatusRequestEntityTooLarge, err, "Payload too large", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable body", nil)
		return
	}

	ack, err := h.cmds.HandleWebhook(c.Request.Context(), body, c.GetHeader(h.signatureHeader))
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrSignature):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid signature", nil)
		case errs.Is(err, commands.ErrMalformedPayload):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Malformed payload", nil)
		case errs.Is(err, commands.ErrIntentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown payment intent", nil)
		default:
			slog.ErrorContext(c.Request.Context(), "webhook processing failed", "error", errs.Redact(err))
			httperr.AbortRetryable(c, http.StatusServiceUnavailable, err, "Webhook processing failed")
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromAck(ack))
}
