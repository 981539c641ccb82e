package model

import (
	"fmt"
	"mime"
	"strings"

	"github.com/deppfellow/bizlist/internal/validation"
	"github.com/google/uuid"
)

const (
	// MaxImageSize is the largest accepted upload, inclusive.
	MaxImageSize int64 = 5 << 20

	// ImageNamespace prefixes every blob path written for a business.
	ImageNamespace = "business-images/"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageUpload is an image received from a client, before it is stored.
type ImageUpload struct {
	Data     []byte
	MimeType string
	Filename string
}

// NormalizeMimeType lowercases a media type and drops its parameters.
func NormalizeMimeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// ImageExtension returns the file extension for an allowed image type.
func ImageExtension(mimeType string) (string, bool) {
	ext, ok := imageExtensions[NormalizeMimeType(mimeType)]
	return ext, ok
}

// ImagePath builds business-images/<owner>/<business>/<name>.<ext>.
func ImagePath(ownerID string, businessID uuid.UUID, name, ext string) string {
	return fmt.Sprintf("%s%s/%s/%s.%s", ImageNamespace, ownerID, businessID, name, ext)
}

// IsNamespacedImagePath reports whether path looks like one this service
// wrote. Anything else in a record is reported as invalid.
func IsNamespacedImagePath(path string) bool {
	return path != "" && strings.Contains(path, ImageNamespace)
}

type ImageStatus struct {
	Path      string `json:"path"`
	IsValid   bool   `json:"is_valid"`
	PublicURL string `json:"public_url,omitempty"`
}

// ImageValidationReport describes every image path stored on a business.
type ImageValidationReport struct {
	BusinessID uuid.UUID     `json:"business_id"`
	Total      int           `json:"total"`
	ValidCount int           `json:"valid_count"`
	Images     []ImageStatus `json:"images"`
}

type UploadImageRequest struct {
	BusinessID string `param:"businessId" validate:"required,uuid"`
}

func (r *UploadImageRequest) Validate() error {
	return validation.Struct(r)
}

type RemoveImageRequest struct {
	BusinessID string `json:"-" param:"businessId" validate:"required,uuid"`
	Path       string `json:"path" validate:"required,max=1024"`
}

func (r *RemoveImageRequest) Validate() error {
	r.Path = strings.TrimSpace(r.Path)
	return validation.Struct(r)
}

type ValidateImagesRequest struct {
	BusinessID string `param:"businessId" validate:"required,uuid"`
}

func (r *ValidateImagesRequest) Validate() error {
	return validation.Struct(r)
}
