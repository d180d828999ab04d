package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	policiesCreated metric.Int64Counter
	policiesSettled metric.Int64Counter
	premiumCents    metric.Int64Counter
	payoutCents     metric.Int64Counter
	policyCancelled metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "skycover"
	}
	meter := provider.Meter(name)

	policiesCreated, err := meter.Int64Counter("skycover_policies_created_total")
	if err != nil {
		return nil, err
	}
	policiesSettled, err := meter.Int64Counter("skycover_payouts_processed_total")
	if err != nil {
		return nil, err
	}
	premiumCents, err := meter.Int64Counter("skycover_premium_cents_total")
	if err != nil {
		return nil, err
	}
	payoutCents, err := meter.Int64Counter("skycover_payout_cents_total")
	if err != nil {
		return nil, err
	}
	policyCancelled, err := meter.Int64Counter("skycover_policies_cancelled_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		policiesCreated: policiesCreated,
		policiesSettled: policiesSettled,
		premiumCents:    premiumCents,
		payoutCents:     payoutCents,
		policyCancelled: policyCancelled,
	}, nil
}

func (m *Metrics) RecordPolicyCreated(ctx context.Context, premiumCents int64) {
	if m == nil {
		return
	}
	m.policiesCreated.Add(ctx, 1)
	m.premiumCents.Add(ctx, premiumCents)
}

func (m *Metrics) RecordPayout(ctx context.Context, amountCents int64, reason string) {
	if m == nil {
		return
	}
	m.policiesSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	m.payoutCents.Add(ctx, amountCents)
}

func (m *Metrics) RecordCancellation(ctx context.Context) {
	if m == nil {
		return
	}
	m.policyCancelled.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
