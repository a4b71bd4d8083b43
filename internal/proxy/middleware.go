package proxy

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/tutorpro/internal/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"

	ctxRequestID = "request_id"
	ctxTraceID   = "trace_id"
)

// RequestContext assigns a request id (honouring an incoming X-Request-Id)
// and exposes the active trace id. Both are echoed as response headers.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(headerRequestID))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(ctxRequestID, rid)
		c.Header(headerRequestID, rid)

		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			tid := sc.TraceID().String()
			c.Set(ctxTraceID, tid)
			c.Header(headerTraceID, tid)
		}
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level chosen by status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ctxRequestID),
		}
		if tid := c.GetString(ctxTraceID); tid != "" {
			kv = append(kv, "trace_id", tid)
		}
		if kind := c.GetString(ctxErrorKind); kind != "" {
			kv = append(kv, "error_kind", kind)
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", kv...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}

// CORS allows browser front-ends served from origins to call the API.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", headerRequestID, "traceparent", "tracestate"},
		ExposeHeaders: []string{headerRequestID, headerTraceID},
		MaxAge:        12 * time.Hour,
	})
}
