package components

import (
	"payment-reconciler/internal/handler"
	"payment-reconciler/internal/handler/api"
	"payment-reconciler/internal/handler/middleware"
	"payment-reconciler/internal/pkg/config"
	"payment-reconciler/internal/usecase/commands"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPaymentHandler,
		func(cmds commands.WebhookCommands, cfg config.Config) *api.WebhookHandler {
			return api.NewWebhookHandler(cmds, cfg.Gateway.SignatureHeader, cfg.Webhook.MaxBodyBytes)
		},
		func(p *api.PaymentHandler, w *api.WebhookHandler) handler.Handlers {
			return handler.Handlers{Payment: p, Webhook: w}
		},
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
