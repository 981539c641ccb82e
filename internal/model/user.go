package model

import (
	"time"

	"github.com/deppfellow/bizlist/internal/validation"
)

// User is the local account for an identity held by the auth provider.
// ID is the provider's user id.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName *string   `json:"first_name" db:"first_name"`
	LastName  *string   `json:"last_name" db:"last_name"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type GetMeRequest struct{}

func (r *GetMeRequest) Validate() error {
	return nil
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitnil,min=1,max=100"`
}

func (r *UpdateProfileRequest) Validate() error {
	trimRequired(&r.FirstName)
	trimRequired(&r.LastName)
	return validation.Struct(r)
}

type ListMyBusinessesQuery struct {
	Page  int `query:"page" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

func (q *ListMyBusinessesQuery) Validate() error {
	return validation.Struct(q)
}
