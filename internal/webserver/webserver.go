// Package webserver owns the HTTP process: the echo instance, route
// registration helpers used by the API packages, and the central error
// handler that maps the error taxonomy to HTTP statuses.
package webserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openeshop/eshop/config"
)

// DBContextKey carries the gorm handle injected into every request context.
const DBContextKey = "webserver:gormdb"

// AppContext is the slice of the application container the web server needs.
type AppContext interface {
	DB() *gorm.DB
	Config() *config.AppConfig
}

var (
	server  *echo.Echo
	appCtx  AppContext
	apiRoot string
)

// Init builds the echo instance. The authorization middleware is passed in
// from the caller so this package stays independent of the gate wiring.
func Init(ctx AppContext, auth echo.MiddlewareFunc) {
	appCtx = ctx
	apiRoot = ctx.Config().Web.ApiRoot

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = ctx.Config().Web.Debug
	e.JSONSerializer = NewJsoniterSerializer()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(ZapLoggerMiddleware())
	e.Use(injectDB)
	if auth != nil {
		e.Use(auth)
	}
	server = e
}

func injectDB(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(DBContextKey, appCtx.DB())
		return next(c)
	}
}

// ZapLoggerMiddleware writes one structured log line per request.
func ZapLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			zap.L().Info("http request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return nil
		}
	}
}

// Instance exposes the echo server, mainly for tests.
func Instance() *echo.Echo {
	return server
}

// ApiGET registers a handler under the configured API root.
func ApiGET(path string, handler echo.HandlerFunc) {
	server.GET(apiRoot+path, handler)
}

func ApiPOST(path string, handler echo.HandlerFunc) {
	server.POST(apiRoot+path, handler)
}

func ApiPUT(path string, handler echo.HandlerFunc) {
	server.PUT(apiRoot+path, handler)
}

func ApiDELETE(path string, handler echo.HandlerFunc) {
	server.DELETE(apiRoot+path, handler)
}

func Start() error {
	cfg := appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("starting web server", zap.String("addr", addr), zap.String("api_root", apiRoot))
	return server.Start(addr)
}

func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
