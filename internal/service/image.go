package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/lib/storage"
	"github.com/deppfellow/bizlist/internal/logger"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cleanupTimeout bounds the compensating blob delete, which runs even when
// the request context is already cancelled.
const cleanupTimeout = 10 * time.Second

type ImageService struct {
	records RecordStore
	blobs   storage.BlobStore
	logger  *zerolog.Logger

	newName func() string
}

func NewImageService(records RecordStore, blobs storage.BlobStore, logger *zerolog.Logger) *ImageService {
	return &ImageService{
		records: records,
		blobs:   blobs,
		logger:  logger,
		newName: uuid.NewString,
	}
}

// AssociateImage stores upload in the blob store and appends its path to
// the business's images.
//
// The blob is written before the record is touched. If the record update
// then fails the blob is deleted again on a best-effort basis and the
// returned error reports whether that worked; a blob is never left
// referenced by a record without having been written.
func (s *ImageService) AssociateImage(ctx context.Context, callerID string, businessID uuid.UUID, upload model.ImageUpload) (*model.Business, error) {
	log := logger.FromContext(ctx, s.logger).With().
		Str("business_id", businessID.String()).
		Str("filename", upload.Filename).
		Logger()

	mimeType := model.NormalizeMimeType(upload.MimeType)
	ext, ok := model.ImageExtension(mimeType)
	if !ok {
		imageUploads.WithLabelValues(outcomeInvalidType).Inc()
		return nil, errs.InvalidFileType(mimeType)
	}

	if int64(len(upload.Data)) > model.MaxImageSize {
		imageUploads.WithLabelValues(outcomeTooLarge).Inc()
		return nil, errs.FileTooLarge(model.MaxImageSize)
	}

	business, err := s.ownedBusiness(ctx, callerID, businessID)
	if err != nil {
		switch errs.KindOf(err) {
		case errs.KindNotFound:
			imageUploads.WithLabelValues(outcomeNotFound).Inc()
		case errs.KindForbidden:
			imageUploads.WithLabelValues(outcomeForbidden).Inc()
		}
		return nil, err
	}

	path := model.ImagePath(business.OwnerID, business.ID, s.newName(), ext)
	log = log.With().Str("path", path).Logger()

	if _, err := s.blobs.Put(ctx, path, upload.Data, mimeType); err != nil {
		imageUploads.WithLabelValues(outcomeStorageFailed).Inc()
		log.Error().Err(err).Msg("failed to write image blob")
		return nil, errs.StorageWriteFailed(err)
	}

	if slices.Contains(business.Images, path) {
		log.Debug().Msg("image path already associated, append is a no-op")
	}

	updated, err := s.records.AppendToArrayField(ctx, business.ID, model.FieldImages, path)
	if err != nil {
		imageUploads.WithLabelValues(outcomeRecordFailed).Inc()
		log.Error().Err(err).Msg("failed to append image path, removing blob")

		cleaned := s.cleanup(ctx, path, &log)
		return nil, errs.RecordUpdateFailed(err, cleaned)
	}

	imageUploads.WithLabelValues(outcomeSuccess).Inc()
	log.Info().
		Int("size", len(upload.Data)).
		Str("mime_type", mimeType).
		Msg("image associated")

	return updated, nil
}

// cleanup deletes a blob whose record update failed and reports whether
// the delete succeeded. Failures are logged, never returned.
func (s *ImageService) cleanup(ctx context.Context, path string, log *zerolog.Logger) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.blobs.Delete(ctx, path); err != nil {
		imageCleanups.WithLabelValues(outcomeFailed).Inc()
		log.Error().Err(err).Msg("failed to delete orphaned image blob")
		return false
	}

	imageCleanups.WithLabelValues(outcomeSuccess).Inc()
	log.Info().Msg("deleted orphaned image blob")
	return true
}

// ValidateImages reports, for every stored path, whether it lies in the
// image namespace and where it can be fetched.
func (s *ImageService) ValidateImages(ctx context.Context, businessID uuid.UUID) (*model.ImageValidationReport, error) {
	business, err := s.records.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	report := &model.ImageValidationReport{
		BusinessID: business.ID,
		Total:      len(business.Images),
		Images:     make([]model.ImageStatus, 0, len(business.Images)),
	}

	for _, path := range business.Images {
		status := model.ImageStatus{Path: path, IsValid: model.IsNamespacedImagePath(path)}
		if status.IsValid {
			status.PublicURL = s.blobs.PublicURL(path)
			report.ValidCount++
		}
		report.Images = append(report.Images, status)
	}

	return report, nil
}

// RemoveImage drops path from the business's images. The blob itself is
// left in storage.
func (s *ImageService) RemoveImage(ctx context.Context, callerID string, businessID uuid.UUID, path string) (*model.Business, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errs.InvalidInput("Image path is required")
	}

	if _, err := s.ownedBusiness(ctx, callerID, businessID); err != nil {
		return nil, err
	}

	updated, err := s.records.RemoveFromArrayField(ctx, businessID, model.FieldImages, path)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info().
		Str("business_id", businessID.String()).
		Str("path", path).
		Msg("image removed from business")

	return updated, nil
}

func (s *ImageService) ownedBusiness(ctx context.Context, callerID string, businessID uuid.UUID) (*model.Business, error) {
	return fetchOwned(ctx, s.records, callerID, businessID)
}

// fetchOwned loads a business and checks that callerID owns it.
func fetchOwned(ctx context.Context, records RecordStore, callerID string, businessID uuid.UUID) (*model.Business, error) {
	business, err := records.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if callerID == "" || business.OwnerID != callerID {
		return nil, errs.Forbidden("You do not own this business")
	}

	return business, nil
}
