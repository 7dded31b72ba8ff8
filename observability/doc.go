// Package observability wires OpenTelemetry tracing and metrics export.
//
//	shutdown, err := observability.Setup(ctx, cfg, observability.Resource{ServiceName: "voicedoc"})
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
package observability
