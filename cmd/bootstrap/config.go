package bootstrap

import (
	"log/slog"

	"payment-reconciler/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logConfigSummary),
)

// logConfigSummary records which drivers this process runs with. Secrets are never logged.
func logConfigSummary(cfg config.Config, _ *slog.Logger) {
	slog.Info("configuration loaded",
		"gateway_driver", cfg.Gateway.Driver,
		"live", cfg.Gateway.Live,
		"store_driver", cfg.Store.Driver,
		"dedup_backend", cfg.Webhook.DedupBackend,
		"dedup_retention", cfg.Webhook.DedupRetention.String(),
		"notify_sink", cfg.Notify.Sink,
		"fail_on_overpayment", cfg.Verify.FailOnOverpayment,
		"hard_fail_unknown_intent", cfg.Webhook.HardFailUnknownIntent)
}
