package videojob

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type metrics struct {
	reconciliations  metric.Int64Counter
	materializations metric.Int64Counter
	assetUploads     metric.Int64Counter
	deletions        metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter("videostudio/videojob")
	return &metrics{
		reconciliations:  counter(meter, "videostudio_reconciliations_total", "Remote status observations by local status."),
		materializations: counter(meter, "videostudio_materializations_total", "Asset mirroring attempts by outcome."),
		assetUploads:     counter(meter, "videostudio_asset_uploads_total", "Asset variant uploads by variant and outcome."),
		deletions:        counter(meter, "videostudio_deletions_total", "Video deletions by outcome."),
	}
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		c, _ = noop.NewMeterProvider().Meter("videostudio/videojob").Int64Counter(name)
	}
	return c
}

func (m *metrics) add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
