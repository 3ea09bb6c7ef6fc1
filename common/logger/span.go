package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "basegraph.app/issuesync"

// Span pairs a started span with the context that carries it.
type Span struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan starts a child of the span in ctx.
//
//	sc := logger.StartSpan(ctx, "sync.issues")
//	defer sc.End()
//	ctx = sc.Context()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) *Span {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return &Span{ctx: ctx, span: span}
}

// StartRunSpan starts the root span of one sync run. A run is executed
// long after the request that enqueued it, so when traceID holds that
// request's hex trace id the run joins the same trace and links to it.
// An empty or malformed traceID starts a fresh trace.
func StartRunSpan(ctx context.Context, traceID string, runID int64, kind string) *Span {
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.Int64("sync.run_id", runID),
			attribute.String("sync.kind", kind),
		),
	}

	if remote, ok := remoteSpanContext(traceID); ok {
		opts = append(opts, trace.WithLinks(trace.Link{SpanContext: remote}))
		ctx = trace.ContextWithRemoteSpanContext(ctx, remote)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "sync.run", opts...)
	return &Span{ctx: ctx, span: span}
}

func remoteSpanContext(traceID string) (trace.SpanContext, bool) {
	if traceID == "" {
		return trace.SpanContext{}, false
	}
	tid, err := trace.TraceIDFromHex(traceID)
	if err != nil {
		return trace.SpanContext{}, false
	}
	// The enqueuing span id is not carried on the task, only the trace id.
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}), true
}

func (s *Span) Context() context.Context {
	return s.ctx
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// Fail records err on the span and marks the span as errored. A nil err is
// ignored.
func (s *Span) Fail(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End completes the span. Later calls are no-ops.
func (s *Span) End() {
	s.span.End()
}
