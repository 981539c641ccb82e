package model

import (
	"strings"
	"time"

	"github.com/deppfellow/bizlist/internal/lib/utils"
	"github.com/deppfellow/bizlist/internal/validation"
	"github.com/google/uuid"
)

// Business is a listing owned by one user.
//
// Images holds blob paths in display order. Every entry was confirmed
// written to the blob store before it was appended.
type Business struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Address     *string   `json:"address" db:"address"`
	Contact     *string   `json:"contact" db:"contact"`
	Description *string   `json:"description" db:"description"`
	Images      []string  `json:"images" db:"images"`
	Rating      float64   `json:"rating" db:"rating"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ArrayField names an array column that supports append and remove.
type ArrayField string

const FieldImages ArrayField = "images"

// BusinessPatch lists the columns an update may change. Nil means keep.
type BusinessPatch struct {
	Name        *string
	Category    *string
	Address     *string
	Contact     *string
	Description *string
	Rating      *float64
}

func (p BusinessPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Address == nil &&
		p.Contact == nil && p.Description == nil && p.Rating == nil
}

type CreateBusinessRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=100"`
	Address     *string  `json:"address" validate:"omitnil,max=500"`
	Contact     *string  `json:"contact" validate:"omitnil,max=200"`
	Description *string  `json:"description" validate:"omitnil,max=5000"`
	Rating      *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
}

func (r *CreateBusinessRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	utils.TrimPtr(&r.Address)
	utils.TrimPtr(&r.Contact)
	utils.TrimPtr(&r.Description)
	return validation.Struct(r)
}

type GetBusinessRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *GetBusinessRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateBusinessRequest struct {
	ID          string   `json:"-" param:"id" validate:"required,uuid"`
	Name        *string  `json:"name" validate:"omitnil,min=1,max=200"`
	Category    *string  `json:"category" validate:"omitnil,min=1,max=100"`
	Address     *string  `json:"address" validate:"omitnil,max=500"`
	Contact     *string  `json:"contact" validate:"omitnil,max=200"`
	Description *string  `json:"description" validate:"omitnil,max=5000"`
	Rating      *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
}

func (r *UpdateBusinessRequest) Validate() error {
	trimRequired(&r.Name)
	trimRequired(&r.Category)
	utils.TrimPtr(&r.Address)
	utils.TrimPtr(&r.Contact)
	utils.TrimPtr(&r.Description)
	return validation.Struct(r)
}

func (r *UpdateBusinessRequest) Patch() BusinessPatch {
	return BusinessPatch{
		Name:        r.Name,
		Category:    r.Category,
		Address:     r.Address,
		Contact:     r.Contact,
		Description: r.Description,
		Rating:      r.Rating,
	}
}

type DeleteBusinessRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *DeleteBusinessRequest) Validate() error {
	return validation.Struct(r)
}

// ListBusinessesQuery filters GET /businesses. Search matches names
// case-insensitively.
type ListBusinessesQuery struct {
	Category string `query:"category" validate:"max=100"`
	OwnerID  string `query:"owner_id" validate:"max=200"`
	Search   string `query:"search" validate:"max=200"`
	Page     int    `query:"page" validate:"gte=0"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
}

func (q *ListBusinessesQuery) Validate() error {
	q.Category = strings.TrimSpace(q.Category)
	q.OwnerID = strings.TrimSpace(q.OwnerID)
	q.Search = strings.TrimSpace(q.Search)
	return validation.Struct(q)
}

// Normalize applies paging defaults.
func (q ListBusinessesQuery) Normalize() ListBusinessesQuery {
	q.Page, q.Limit = utils.ClampPage(q.Page, q.Limit, DefaultPageLimit, MaxPageLimit)
	return q
}

// trimRequired trims a set value but keeps it non-nil so a blank value
// fails validation instead of being ignored.
func trimRequired(s **string) {
	if *s == nil {
		return
	}
	trimmed := strings.TrimSpace(**s)
	*s = &trimmed
}
