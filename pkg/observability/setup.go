package observability

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/metrics"
)

// NoopProvider é usado quando métricas estão desabilitadas.
type NoopProvider struct{}

func (n *NoopProvider) Count(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Histogram(name string, value float64, tags []string) error { return nil }
func (n *NoopProvider) Close() error                                              { return nil }

// DatadogProvider adapta o cliente DogStatsD para metrics.Provider.
type DatadogProvider struct {
	client statsd.ClientInterface
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// Close descarrega o buffer do cliente antes de encerrar.
func (d *DatadogProvider) Close() error {
	return d.client.Close()
}

// SetupMetrics inicializa o provedor de acordo com a configuração.
func SetupMetrics(cfg config.MetricsConf, tags ...string) (metrics.Provider, error) {
	if !cfg.Datadog.Enabled {
		return &NoopProvider{}, nil
	}

	opts := []statsd.Option{
		statsd.WithNamespace(cfg.Datadog.Namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, statsd.WithTags(tags))
	}

	client, err := statsd.New(cfg.Datadog.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no datadog statsd: %w", err)
	}

	return &DatadogProvider{client: client}, nil
}
