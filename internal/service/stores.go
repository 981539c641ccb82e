package service

import (
	"context"

	"github.com/deppfellow/bizlist/internal/model"
	"github.com/google/uuid"
)

// RecordStore persists businesses. repository.BusinessRepository is the
// Postgres implementation.
//
// GetByID, Update, Delete and the array operations return an error of
// kind errs.KindNotFound when the business does not exist.
// AppendToArrayField leaves the array unchanged when value is already
// present; RemoveFromArrayField removes every occurrence and is a no-op
// for an absent value. Both return the resulting record.
type RecordStore interface {
	Insert(ctx context.Context, b *model.Business) (*model.Business, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	Update(ctx context.Context, id uuid.UUID, patch model.BusinessPatch) (*model.Business, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q model.ListBusinessesQuery) ([]model.Business, int, error)
	AppendToArrayField(ctx context.Context, id uuid.UUID, field model.ArrayField, value string) (*model.Business, error)
	RemoveFromArrayField(ctx context.Context, id uuid.UUID, field model.ArrayField, value string) (*model.Business, error)
}

// UserStore persists local user accounts.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	Insert(ctx context.Context, u *model.User) (*model.User, bool, error)
	UpdateProfile(ctx context.Context, id string, firstName, lastName *string) (*model.User, error)
}
