package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile collects OTel metrics into a private Prometheus registry and
// writes them in text exposition format, for node_exporter's textfile
// collector.
type Textfile struct {
	path     string
	registry *prometheus.Registry
	exporter *promexporter.Exporter
}

// NewTextfile creates a collector that writes to path.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{path: path, registry: registry, exporter: exporter}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
func (tf *Textfile) Reader() sdkmetric.Reader {
	return tf.exporter
}

// Registry returns the private registry holding the collected metrics.
func (tf *Textfile) Registry() *prometheus.Registry {
	return tf.registry
}

// Write gathers the registry and atomically replaces the textfile.
func (tf *Textfile) Write() error {
	err := prometheus.WriteToTextfile(tf.path, tf.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", tf.path, err)
	}

	return nil
}
