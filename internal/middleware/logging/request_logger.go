package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// writes one http_request entry when the handler returns. Probe and scrape
// endpoints are logged at debug level only.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			attrs := []any{
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			}
			if rid := requestID(c); rid != "" {
				attrs = append(attrs, "request_id", rid)
			}
			l := base.With(attrs...)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			// set by the auth middleware for authenticated routes
			if uid, ok := c.Get("user_id").(string); ok && uid != "" {
				fields = append(fields, "user_id", uid)
			}

			ctx := c.Request().Context()
			switch {
			case status >= 500:
				l.ErrorContext(ctx, "http_request", append(fields, "error", errString(err))...)
			case status >= 400:
				l.WarnContext(ctx, "http_request", fields...)
			case quiet(req.URL.Path):
				l.DebugContext(ctx, "http_request", fields...)
			default:
				l.InfoContext(ctx, "http_request", fields...)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func quiet(path string) bool {
	return strings.HasPrefix(path, "/health/") || path == "/metrics"
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
