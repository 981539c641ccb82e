package router

import (
	"net/http"

	"github.com/deppfellow/bizlist/internal/handler"
	"github.com/deppfellow/bizlist/internal/middleware"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// uploadBodyLimit leaves room for multipart framing around a 5 MiB image.
// Larger bodies are cut off before they are read.
const uploadBodyLimit = "6M"

func registerImageRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	img := h.Image
	auth := m.Auth.RequireAuth

	g.POST("/upload-image/business/:businessId",
		handler.Handle(img.Handler, img.UploadImage, http.StatusOK),
		auth,
		m.RateLimit.Uploads(),
		echoMiddleware.BodyLimit(uploadBodyLimit),
	)
	g.DELETE("/upload-image/business/:businessId", handler.Handle(img.Handler, img.RemoveImage, http.StatusOK), auth)
	g.GET("/business/validate-images/:businessId", handler.Handle(img.Handler, img.ValidateImages, http.StatusOK))
}
