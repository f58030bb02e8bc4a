package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger returns an Echo middleware that logs one line per request
// through the provided zerolog logger.
func RequestLogger(l zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let Echo write the error response before reading the status
				c.Error(err)
			}
			l.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Str("remote_ip", c.RealIP()).
				Dur("duration", time.Since(start)).
				Msg("request")
			return err
		}
	}
}
