package components

import (
	"context"
	"log/slog"

	"payment-reconciler/internal/infra/dedup"
	"payment-reconciler/internal/infra/gateway"
	"payment-reconciler/internal/infra/notify"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/config"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewSignatureVerifier,
		NewGateway,
		NewSeenEvents,
		NewPublisher,
	),
)

func NewSignatureVerifier(cfg config.Config) *gateway.SignatureVerifier {
	return gateway.NewSignatureVerifier(cfg.Gateway.WebhookSecret, cfg.Gateway.SignatureTolerance)
}

func NewGateway(cfg config.Config, verifier *gateway.SignatureVerifier, clk clock.Clock) commands.Gateway {
	if cfg.Gateway.Driver == config.GatewaySandbox {
		slog.Warn("using sandbox payment gateway")
		return gateway.NewSandboxGateway(verifier, clk)
	}
	return gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey:  cfg.Gateway.SecretKey,
		Timeout:    cfg.Gateway.Timeout,
		MaxRetries: cfg.Gateway.MaxRetries,
		BaseURL:    cfg.Gateway.BaseURL,
	}, verifier, clk)
}

func NewSeenEvents(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (commands.SeenEvents, error) {
	if cfg.Webhook.DedupBackend != config.BackendRedis {
		return dedup.NewMemoryWindow(cfg.Webhook.DedupRetention, cfg.Webhook.DedupMaxEntries, clk), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, errs.Wrap(err, "parse REDIS_URL")
	}
	client := redis.NewClient(opts)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return dedup.NewRedisWindow(client, cfg.Redis.KeyPrefix, cfg.Webhook.DedupRetention), nil
}

func NewPublisher(lc fx.Lifecycle, cfg config.Config) (notify.Publisher, error) {
	pub, err := notify.NewPublisher(context.Background(), cfg.Notify)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
