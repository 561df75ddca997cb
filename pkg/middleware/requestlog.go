package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fraatlas/pkg/logger"
)

// RequestLog tags each request with an X-Request-Id, stores a request-scoped
// logger in the context and writes one http_request line when it completes.
func RequestLog(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			reqLog := log.With(zap.String("request_id", rid))
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if uid, _ := c.Get("uid").(string); uid != "" {
				fields = append(fields, zap.String("uid", uid))
			}
			if err != nil {
				reqLog.Warn("http_request", append(fields, zap.Error(err))...)
			} else {
				reqLog.Info("http_request", fields...)
			}
			return nil
		}
	}
}
