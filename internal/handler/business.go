package handler

import (
	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/middleware"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/deppfellow/bizlist/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BusinessHandler struct {
	Handler
	businesses *service.BusinessService
}

func NewBusinessHandler(s *server.Server, businesses *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		Handler:    NewHandler(s),
		businesses: businesses,
	}
}

func (h *BusinessHandler) CreateBusiness(c echo.Context, req *model.CreateBusinessRequest) (*model.Business, error) {
	return h.businesses.Create(c.Request().Context(), middleware.GetUserID(c), req)
}

func (h *BusinessHandler) GetBusiness(c echo.Context, req *model.GetBusinessRequest) (*model.Business, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	return h.businesses.GetByID(c.Request().Context(), id)
}

func (h *BusinessHandler) ListBusinesses(c echo.Context, req *model.ListBusinessesQuery) (*model.PaginatedResponse[model.Business], error) {
	return h.businesses.List(c.Request().Context(), *req)
}

func (h *BusinessHandler) UpdateBusiness(c echo.Context, req *model.UpdateBusinessRequest) (*model.Business, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	return h.businesses.Update(c.Request().Context(), middleware.GetUserID(c), id, req.Patch())
}

func (h *BusinessHandler) DeleteBusiness(c echo.Context, req *model.DeleteBusinessRequest) error {
	id, err := parseID(req.ID)
	if err != nil {
		return err
	}
	return h.businesses.Delete(c.Request().Context(), middleware.GetUserID(c), id)
}

// parseID parses an id that already passed the uuid validator.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.InvalidInput("Invalid id")
	}
	return id, nil
}
