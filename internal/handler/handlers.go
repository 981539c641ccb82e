package handler

import (
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/deppfellow/bizlist/internal/service"
)

type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Business *BusinessHandler
	Image    *ImageHandler
	User     *UserHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Business: NewBusinessHandler(s, services.Business),
		Image:    NewImageHandler(s, services.Image),
		User:     NewUserHandler(s, services.User),
	}
}
