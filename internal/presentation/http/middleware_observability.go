package httppresentation

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability/logctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerRequestID = "X-Request-ID"
	unknownRoute    = "unknown"
)

// route is the low-cardinality template gin matched, e.g. /api/v1/products/:id.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return unknownRoute
}

// withTrace extracts W3C trace context and opens a server span for the request.
func withTrace(tracer observability.Tracer) gin.HandlerFunc {
	prop := otel.GetTextMapPropagator()
	return func(c *gin.Context) {
		r := c.Request
		parent := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		tmpl := route(c)
		spanName := r.Method + " " + tmpl
		if tmpl == unknownRoute {
			spanName = r.Method + " " + r.URL.Path
		}
		ctx, span := tracer.Start(parent, spanName,
			attribute.String("http.method", r.Method),
			attribute.String("http.route", tmpl),
			attribute.String("http.target", r.URL.Path),
			attribute.String("http.user_agent", r.UserAgent()),
		)
		defer span.End()

		c.Request = r.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// withRequestLogger binds a request-scoped logger carrying the request id and
// trace identifiers, and echoes X-Request-ID.
func withRequestLogger(base observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)

		fields := []observability.Field{observability.F("request_id", rid)}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		ctx := logctx.With(c.Request.Context(), base.With(fields...))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// withHTTPMetrics records http_requests_total and http_request_duration_seconds.
func withHTTPMetrics(m observability.Metrics) gin.HandlerFunc {
	requests := m.Counter(observability.MHTTPRequests)
	durations := m.Histogram(observability.MHTTPRequestDuration)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		labels := []observability.Label{
			observability.L("method", c.Request.Method),
			observability.L("route", route(c)),
			observability.L("status", strconv.Itoa(c.Writer.Status())),
		}
		requests.Add(1, labels...)
		durations.Observe(time.Since(start).Seconds(), labels...)
	}
}

// withAccessLog writes one access line after the handler completes.
func withAccessLog(base observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logctx.FromOr(c.Request.Context(), base).Info("http_access",
			observability.F("method", c.Request.Method),
			observability.F("route", route(c)),
			observability.F("path", c.Request.URL.Path),
			observability.F("status", c.Writer.Status()),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	}
}

// withRecovery turns a handler panic into a 500 and an error log.
func withRecovery(base observability.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		logctx.FromOr(c.Request.Context(), base).Error("http_handler_panic",
			observability.F("error", err),
			observability.F("stack", string(debug.Stack())),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
