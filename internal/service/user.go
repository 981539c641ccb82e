package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/lib/job"
	"github.com/deppfellow/bizlist/internal/logger"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskEnqueuer queues background tasks. *asynq.Client implements it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UserService struct {
	users      UserStore
	identities IdentityProvider
	tasks      TaskEnqueuer
	businesses *BusinessService
	logger     *zerolog.Logger
}

func NewUserService(users UserStore, identities IdentityProvider, tasks TaskEnqueuer, businesses *BusinessService, logger *zerolog.Logger) *UserService {
	return &UserService{
		users:      users,
		identities: identities,
		tasks:      tasks,
		businesses: businesses,
		logger:     logger,
	}
}

// GetOrProvision returns the local account for userID, creating it from
// the auth provider's record on first use. A welcome email is queued only
// when this call created the row.
func (s *UserService) GetOrProvision(ctx context.Context, userID string) (*model.User, error) {
	existing, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if errs.KindOf(err) != errs.KindNotFound {
		return nil, err
	}

	identity, err := s.identities.GetIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	u, created, err := s.users.Insert(ctx, &model.User{
		ID:        userID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		ImageURL:  identity.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.logger)

	if created {
		log.Info().Str("user_id", userID).Msg("user provisioned")
		s.enqueueWelcome(ctx, u, log)
	}

	return u, nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, u *model.User, log *zerolog.Logger) {
	if s.tasks == nil || u.Email == "" {
		return
	}

	firstName := ""
	if u.FirstName != nil {
		firstName = *u.FirstName
	}

	task, err := job.NewWelcomeEmailTask(u.ID, u.Email, firstName)
	if err != nil {
		log.Error().Err(err).Msg("failed to build welcome email task")
		return
	}

	if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to enqueue welcome email")
	}
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error) {
	if _, err := s.GetOrProvision(ctx, userID); err != nil {
		return nil, err
	}

	u, err := s.users.UpdateProfile(ctx, userID, req.FirstName, req.LastName)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

func (s *UserService) ListOwnedBusinesses(ctx context.Context, userID string, q model.ListMyBusinessesQuery) (*model.PaginatedResponse[model.Business], error) {
	return s.businesses.List(ctx, model.ListBusinessesQuery{
		OwnerID: userID,
		Page:    q.Page,
		Limit:   q.Limit,
	})
}
