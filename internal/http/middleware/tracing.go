package middleware

import (
	"net/http"
	"strings"

	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/trace"
)

// TracingMiddleware wraps the server in an ochttp span per request. Webhook
// deliveries come from the platform and start a new trace instead of
// joining whatever the caller sent.
func TracingMiddleware(next http.Handler) http.Handler {
	annotated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.FromContext(r.Context())
		if span == nil {
			next.ServeHTTP(w, r)
			return
		}

		span.AddAttributes(
			trace.StringAttribute("http.host", r.Host),
			trace.StringAttribute("http.user_agent", r.UserAgent()),
			trace.StringAttribute("http.method", r.Method),
			trace.StringAttribute("http.path", r.URL.Path),
		)
		if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
			span.AddAttributes(trace.StringAttribute("http.request_id", requestID))
		}

		next.ServeHTTP(&statusRecorder{ResponseWriter: w, span: span}, r)
	})

	spanName := func(r *http.Request) string {
		return r.Method + " " + r.URL.Path
	}
	isHealth := func(r *http.Request) bool {
		return r.URL.Path == "/health"
	}
	public := &ochttp.Handler{
		Handler:          annotated,
		FormatSpanName:   spanName,
		IsPublicEndpoint: true,
		IsHealthEndpoint: isHealth,
	}
	internal := &ochttp.Handler{
		Handler:          annotated,
		FormatSpanName:   spanName,
		IsHealthEndpoint: isHealth,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsWebhookPath(r.URL.Path) {
			public.ServeHTTP(w, r)
			return
		}
		internal.ServeHTTP(w, r)
	})
}

// IsWebhookPath reports whether the request targets the public webhook receiver
func IsWebhookPath(path string) bool {
	return strings.HasPrefix(path, "/webhooks/")
}

// statusRecorder copies the response status onto the request span
type statusRecorder struct {
	http.ResponseWriter
	span       *trace.Span
	statusCode int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.statusCode = code
	s.span.AddAttributes(trace.Int64Attribute("http.status_code", int64(code)))
	if code >= 400 {
		s.span.SetStatus(trace.Status{
			Code:    trace.StatusCodeUnknown,
			Message: http.StatusText(code),
		})
	}
	s.ResponseWriter.WriteHeader(code)
}

var _ http.ResponseWriter = (*statusRecorder)(nil)
