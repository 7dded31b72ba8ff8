package recording

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/voicedoc/observability"
)

type instruments struct {
	recordings     metric.Int64Counter
	transcriptions metric.Int64Counter
	deliveries     metric.Int64Counter
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	recordings, err := meter.Int64Counter("voicedoc.recordings",
		metric.WithDescription("Completed recording cycles by outcome"))
	if err != nil {
		return nil, err
	}
	transcriptions, err := meter.Int64Counter("voicedoc.transcriptions",
		metric.WithDescription("Transcription calls by outcome"))
	if err != nil {
		return nil, err
	}
	deliveries, err := meter.Int64Counter("voicedoc.deliveries",
		metric.WithDescription("Webhook deliveries by outcome"))
	if err != nil {
		return nil, err
	}
	return &instruments{recordings: recordings, transcriptions: transcriptions, deliveries: deliveries}, nil
}

func count(ctx context.Context, c metric.Int64Counter, outcome string) {
	c.Add(ctx, 1, metric.WithAttributes(attribute.String(observability.AttrOutcome, outcome)))
}
