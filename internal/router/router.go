// Package router builds the echo instance: the global middleware chain,
// system routes and the /api/v1 routes.
package router

import (
	"net/http"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/handler"
	"github.com/deppfellow/bizlist/internal/middleware"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// globalRequestsPerSecond bounds requests per client IP on this instance.
const globalRequestsPerSecond = 20

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
			Store: echoMiddleware.NewRateLimiterMemoryStore(rate.Limit(globalRequestsPerSecond)),
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				middlewares.RateLimit.RecordRateLimitHit(c.Path())
				return errs.NewTooManyRequestsError("Too many requests, please slow down")
			},
		}),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middleware.Metrics(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, s)

	v1 := router.Group("/api/v1")
	registerBusinessRoutes(v1, h, middlewares)
	registerImageRoutes(v1, h, middlewares)
	registerUserRoutes(v1, h, middlewares)

	return router
}

func registerBusinessRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	b := h.Business
	auth := m.Auth.RequireAuth

	g.GET("/businesses", handler.Handle(b.Handler, b.ListBusinesses, http.StatusOK))
	g.GET("/businesses/:id", handler.Handle(b.Handler, b.GetBusiness, http.StatusOK))
	g.POST("/businesses", handler.Handle(b.Handler, b.CreateBusiness, http.StatusCreated), auth)
	g.PATCH("/businesses/:id", handler.Handle(b.Handler, b.UpdateBusiness, http.StatusOK), auth)
	g.DELETE("/businesses/:id", handler.HandleNoContent(b.Handler, b.DeleteBusiness, http.StatusNoContent), auth)
}
