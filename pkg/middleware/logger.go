package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type LoggerOpts func(*loggerOptions)

type loggerOptions struct {
	logger *slog.Logger
	skip   map[string]bool
}

// WithLogger sends request records to l instead of the default logger.
func WithLogger(l *slog.Logger) LoggerOpts {
	return func(o *loggerOptions) {
		o.logger = l
	}
}

// WithSkipPaths stops logging of frequently polled routes such as /health.
func WithSkipPaths(paths ...string) LoggerOpts {
	return func(o *loggerOptions) {
		for _, p := range paths {
			o.skip[p] = true
		}
	}
}

func Logger(opts ...LoggerOpts) echo.MiddlewareFunc {
	o := loggerOptions{skip: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return o.skip[c.Path()]
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error == nil {
				o.logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "REQUEST", attrs...)
			} else {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				o.logger.LogAttrs(c.Request().Context(), slog.LevelError, "REQUEST_ERROR", attrs...)
			}
			return nil
		},
	})
}
