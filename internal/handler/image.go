package handler

import (
	"io"
	"net/http"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/middleware"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/deppfellow/bizlist/internal/server"
	"github.com/deppfellow/bizlist/internal/service"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ImageFormField is the multipart field carrying the upload.
const ImageFormField = "image"

type ImageHandler struct {
	Handler
	images *service.ImageService
}

func NewImageHandler(s *server.Server, images *service.ImageService) *ImageHandler {
	return &ImageHandler{
		Handler: NewHandler(s),
		images:  images,
	}
}

func (h *ImageHandler) UploadImage(c echo.Context, req *model.UploadImageRequest) (*model.Business, error) {
	businessID, err := parseID(req.BusinessID)
	if err != nil {
		return nil, err
	}

	upload, err := readImageUpload(c)
	if err != nil {
		return nil, err
	}

	return h.images.AssociateImage(c.Request().Context(), middleware.GetUserID(c), businessID, upload)
}

func (h *ImageHandler) RemoveImage(c echo.Context, req *model.RemoveImageRequest) (*model.Business, error) {
	businessID, err := parseID(req.BusinessID)
	if err != nil {
		return nil, err
	}
	return h.images.RemoveImage(c.Request().Context(), middleware.GetUserID(c), businessID, req.Path)
}

func (h *ImageHandler) ValidateImages(c echo.Context, req *model.ValidateImagesRequest) (*model.ImageValidationReport, error) {
	businessID, err := parseID(req.BusinessID)
	if err != nil {
		return nil, err
	}
	return h.images.ValidateImages(c.Request().Context(), businessID)
}

// readImageUpload reads the image part, at most one byte past the size
// limit so the service can reject oversize files itself. The declared
// content type is used unless it is missing or generic, in which case the
// type is sniffed from the bytes.
func readImageUpload(c echo.Context) (model.ImageUpload, error) {
	fh, err := c.FormFile(ImageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return model.ImageUpload{}, errs.InvalidInput(`A multipart file field named "image" is required`)
		}
		return model.ImageUpload{}, errors.Wrap(err, "failed to read multipart form")
	}

	f, err := fh.Open()
	if err != nil {
		return model.ImageUpload{}, errors.Wrap(err, "failed to open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, model.MaxImageSize+1))
	if err != nil {
		return model.ImageUpload{}, errors.Wrap(err, "failed to read uploaded file")
	}

	contentType := model.NormalizeMimeType(fh.Header.Get(echo.HeaderContentType))
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = mimetype.Detect(data).String()
	}

	return model.ImageUpload{
		Data:     data,
		MimeType: contentType,
		Filename: fh.Filename,
	}, nil
}
