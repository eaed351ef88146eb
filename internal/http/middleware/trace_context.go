package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/fieldnav/annotation-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext resolves a trace id and a request id for the call and
// stores them in the request context for the logging middleware and error
// responses. Caller-supplied header values win so ids stay stable across
// service hops; both ids are echoed back on the response.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := ctxutil.TraceData{
			TraceID:   resolveTraceID(c),
			RequestID: resolveRequestID(c),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), &td))
		c.Header(headerTraceID, td.TraceID)
		c.Header(headerRequestID, td.RequestID)
		c.Next()
	}
}

func resolveRequestID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerRequestID)); id != "" {
		return id
	}
	return uuid.New().String()
}

// resolveTraceID prefers the caller's header, then the active OTel span,
// and mints a fresh id only when neither is present.
func resolveTraceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerTraceID)); id != "" {
		return id
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.New().String()
}
