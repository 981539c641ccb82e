package router

import (
	"net/http"

	"github.com/deppfellow/bizlist/internal/handler"
	"github.com/deppfellow/bizlist/internal/middleware"
	"github.com/labstack/echo/v4"
)

func registerUserRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	u := h.User
	auth := m.Auth.RequireAuth

	g.GET("/users/me", handler.Handle(u.Handler, u.GetMe, http.StatusOK), auth)
	g.PATCH("/users/me", handler.Handle(u.Handler, u.UpdateMe, http.StatusOK), auth)
	g.GET("/users/me/businesses", handler.Handle(u.Handler, u.ListMyBusinesses, http.StatusOK), auth)
}
