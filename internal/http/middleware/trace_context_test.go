package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldnav/annotation-backend/internal/platform/ctxutil"
)

func traceRouter(capture **ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/ping", func(c *gin.Context) {
		*capture = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func TestAttachTraceContext_CallerHeadersWin(t *testing.T) {
	var td *ctxutil.TraceData
	r := traceRouter(&td)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerTraceID, "trace-abc")
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil {
		t.Fatalf("trace data missing from request context")
	}
	if td.TraceID != "trace-abc" || td.RequestID != "req-123" {
		t.Fatalf("caller-supplied ids must win: %+v", td)
	}
	if rec.Header().Get(headerTraceID) != "trace-abc" || rec.Header().Get(headerRequestID) != "req-123" {
		t.Fatalf("ids must be echoed on the response")
	}
}

func TestAttachTraceContext_MintsIDsWhenAbsent(t *testing.T) {
	var td *ctxutil.TraceData
	r := traceRouter(&td)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if td == nil {
		t.Fatalf("trace data missing from request context")
	}
	if _, err := uuid.Parse(td.TraceID); err != nil {
		t.Fatalf("minted trace id is not a uuid: %q", td.TraceID)
	}
	if _, err := uuid.Parse(td.RequestID); err != nil {
		t.Fatalf("minted request id is not a uuid: %q", td.RequestID)
	}
	if rec.Header().Get(headerTraceID) != td.TraceID || rec.Header().Get(headerRequestID) != td.RequestID {
		t.Fatalf("response headers must match the stored ids")
	}
}
