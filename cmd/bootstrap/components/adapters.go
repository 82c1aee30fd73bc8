package components

import (
	"context"
	"log/slog"

	"vehicle-reservation/internal/infra/messaging"
	"vehicle-reservation/internal/infra/metrics"
	"vehicle-reservation/internal/infra/payment"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/tokens"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

var AdapterModule = fx.Module("adapters",
	fx.Provide(
		NewPaymentGateway,
		NewNotifier,
		NewMetrics,
	),
)

func NewPaymentGateway(cfg config.Config, logger *slog.Logger) commands.PaymentGateway {
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is empty, payments go to the sandbox gateway")
		return payment.NewSandboxGateway()
	}
	return payment.NewStripeGateway(cfg.Stripe.SecretKey)
}

func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (commands.Notifier, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return messaging.NewLogNotifier(logger), nil
	}

	producer, err := messaging.NewKafkaProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, err
	}
	notifier := messaging.NewKafkaNotifier(producer, cfg.Kafka.ConfirmationTopic)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return notifier.Close()
		},
	})
	return notifier, nil
}

// MetricsResult groups the collector views and the /metrics endpoint.
type MetricsResult struct {
	fx.Out

	Commands commands.Metrics
	Tokens   tokens.Metrics
	Registry *prometheus.Registry
}

func NewMetrics() MetricsResult {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)
	return MetricsResult{
		Commands: collector,
		Tokens:   collector,
		Registry: reg,
	}
}
