package router

import (
	"github.com/deppfellow/bizlist/internal/config"
	"github.com/deppfellow/bizlist/internal/handler"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MediaPrefix serves blobs written by the local storage driver.
const MediaPrefix = "/media"

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if s.Config.Storage.Driver == config.StorageDriverLocal {
		r.Static(MediaPrefix, s.Config.Storage.LocalRoot)
	}
}
