// Package context carries request identity through a context.Context.
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceContext identifies one API request in logs and response headers.
type TraceContext struct {
	TraceID   string
	RequestID string
	StartedAt time.Time
}

type traceKey struct{}

// NewTraceContext starts tracing a request. requestID is echoed back when
// the client sent one. TraceID follows the active otel span if ctx has one.
func NewTraceContext(ctx context.Context, requestID string) *TraceContext {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	traceID := uuid.NewString()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	return &TraceContext{TraceID: traceID, RequestID: requestID, StartedAt: time.Now()}
}

func WithTrace(ctx context.Context, t *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// GetTrace returns nil outside a traced request.
func GetTrace(ctx context.Context) *TraceContext {
	t, _ := ctx.Value(traceKey{}).(*TraceContext)
	return t
}

func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// Elapsed is the time spent on the request so far.
func (t *TraceContext) Elapsed() time.Duration {
	return time.Since(t.StartedAt)
}
