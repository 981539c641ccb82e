package handler

import (
	"github.com/deppfellow/bizlist/internal/middleware"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/deppfellow/bizlist/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) GetMe(c echo.Context, _ *model.GetMeRequest) (*model.User, error) {
	return h.users.GetOrProvision(c.Request().Context(), middleware.GetUserID(c))
}

func (h *UserHandler) UpdateMe(c echo.Context, req *model.UpdateProfileRequest) (*model.User, error) {
	return h.users.UpdateProfile(c.Request().Context(), middleware.GetUserID(c), req)
}

func (h *UserHandler) ListMyBusinesses(c echo.Context, req *model.ListMyBusinessesQuery) (*model.PaginatedResponse[model.Business], error) {
	return h.users.ListOwnedBusinesses(c.Request().Context(), middleware.GetUserID(c), *req)
}
