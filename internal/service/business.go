package service

import (
	"context"

	"github.com/deppfellow/bizlist/internal/logger"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BusinessService struct {
	records RecordStore
	logger  *zerolog.Logger
}

func NewBusinessService(records RecordStore, logger *zerolog.Logger) *BusinessService {
	return &BusinessService{records: records, logger: logger}
}

func (s *BusinessService) Create(ctx context.Context, callerID string, req *model.CreateBusinessRequest) (*model.Business, error) {
	business := &model.Business{
		OwnerID:     callerID,
		Name:        req.Name,
		Category:    req.Category,
		Address:     req.Address,
		Contact:     req.Contact,
		Description: req.Description,
	}
	if req.Rating != nil {
		business.Rating = *req.Rating
	}

	created, err := s.records.Insert(ctx, business)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info().
		Str("business_id", created.ID.String()).
		Msg("business created")

	return created, nil
}

func (s *BusinessService) GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	return s.records.GetByID(ctx, id)
}

func (s *BusinessService) List(ctx context.Context, q model.ListBusinessesQuery) (*model.PaginatedResponse[model.Business], error) {
	q = q.Normalize()

	businesses, total, err := s.records.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return model.NewPaginatedResponse(businesses, q.Page, q.Limit, total), nil
}

// Update applies a partial update. Only the owner may change a business.
func (s *BusinessService) Update(ctx context.Context, callerID string, id uuid.UUID, patch model.BusinessPatch) (*model.Business, error) {
	if _, err := fetchOwned(ctx, s.records, callerID, id); err != nil {
		return nil, err
	}

	return s.records.Update(ctx, id, patch)
}

// Delete removes the business row. Its image blobs stay in storage.
func (s *BusinessService) Delete(ctx context.Context, callerID string, id uuid.UUID) error {
	business, err := fetchOwned(ctx, s.records, callerID, id)
	if err != nil {
		return err
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx, s.logger).Info().
		Str("business_id", id.String()).
		Int("retained_images", len(business.Images)).
		Msg("business deleted")

	return nil
}
