package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	appctx "stockcard/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	// maxHeaderID bounds client supplied IDs before they reach logs.
	maxHeaderID = 128

	ctxRequestID = "request_id"
	ctxTraceID   = "trace_id"
)

func headerID(c *gin.Context, name string) string {
	v := c.GetHeader(name)
	if len(v) > maxHeaderID {
		v = v[:maxHeaderID]
	}
	return v
}

// Trace propagates or generates request and trace IDs. When an OpenTelemetry
// span is active its trace ID is used.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := headerID(c, HeaderTraceID)
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}
		tc := appctx.NewTraceContext(traceID, headerID(c, HeaderRequestID))

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), tc))
		c.Set(ctxTraceID, tc.TraceID)
		c.Set(ctxRequestID, tc.RequestID)

		c.Header(HeaderRequestID, tc.RequestID)
		c.Header(HeaderTraceID, tc.TraceID)

		c.Next()
	}
}

// Tracing starts a server span per request and tags it with the request ID
// and caller once the rest of the chain has run.
func Tracing(serviceName string) gin.HandlerFunc {
	base := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := c.GetString(ctxRequestID); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if userID := appctx.GetUserID(c.Request.Context()); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
	}
}
