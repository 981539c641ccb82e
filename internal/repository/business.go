package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/deppfellow/bizlist/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const businessColumns = `id, owner_id, name, category, address, contact, description, images, rating, created_at, updated_at`

// arrayColumns whitelists the columns AppendToArrayField and
// RemoveFromArrayField may touch.
var arrayColumns = map[model.ArrayField]string{
	model.FieldImages: "images",
}

type BusinessRepository struct {
	db     DBTX
	logger *zerolog.Logger

	// appendProcMissing is set once the database reports that
	// business_array_append does not exist, so later appends skip straight
	// to the read-modify-write path.
	appendProcMissing atomic.Bool
}

func NewBusinessRepository(db DBTX, logger *zerolog.Logger) *BusinessRepository {
	return &BusinessRepository{db: db, logger: logger}
}

func errBusinessNotFound() *errs.Error {
	return errs.NotFound("Business not found")
}

func collectBusiness(rows pgx.Rows, op string) (*model.Business, error) {
	business, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Business])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errBusinessNotFound()
		}
		return nil, fmt.Errorf("failed to %s business: %w", op, err)
	}
	if business.Images == nil {
		business.Images = []string{}
	}
	return business, nil
}

func (r *BusinessRepository) Insert(ctx context.Context, b *model.Business) (*model.Business, error) {
	stmt := `
		INSERT INTO businesses (owner_id, name, category, address, contact, description, rating)
		VALUES (@owner_id, @name, @category, @address, @contact, @description, @rating)
		RETURNING ` + businessColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"owner_id":    b.OwnerID,
		"name":        b.Name,
		"category":    b.Category,
		"address":     b.Address,
		"contact":     b.Contact,
		"description": b.Description,
		"rating":      b.Rating,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert business query: %w", err)
	}

	return collectBusiness(rows, "insert")
}

func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	rows, err := r.db.Query(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get business query: %w", err)
	}

	return collectBusiness(rows, "get")
}

// Update applies the non-nil fields of patch. An empty patch returns the
// current row.
func (r *BusinessRepository) Update(ctx context.Context, id uuid.UUID, patch model.BusinessPatch) (*model.Business, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	args := pgx.NamedArgs{"id": id}
	var sets []string

	set := func(column string, value any) {
		sets = append(sets, column+" = @"+column)
		args[column] = value
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Contact != nil {
		set("contact", *patch.Contact)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Rating != nil {
		set("rating", *patch.Rating)
	}

	stmt := `UPDATE businesses SET ` + strings.Join(sets, ", ") + ` WHERE id = @id RETURNING ` + businessColumns

	rows, err := r.db.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute update business query: %w", err)
	}

	return collectBusiness(rows, "update")
}

func (r *BusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM businesses WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errBusinessNotFound()
	}
	return nil
}

// List returns one page of businesses, newest first, and the total number
// of rows matching the filters.
func (r *BusinessRepository) List(ctx context.Context, q model.ListBusinessesQuery) ([]model.Business, int, error) {
	q = q.Normalize()

	args := pgx.NamedArgs{}
	var where []string

	if q.Category != "" {
		where = append(where, "category = @category")
		args["category"] = q.Category
	}
	if q.OwnerID != "" {
		where = append(where, "owner_id = @owner_id")
		args["owner_id"] = q.OwnerID
	}
	if q.Search != "" {
		where = append(where, "name ILIKE @search")
		args["search"] = "%" + escapeLike(q.Search) + "%"
	}

	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM businesses`+filter, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}

	args["limit"] = q.Limit
	args["offset"] = (q.Page - 1) * q.Limit

	rows, err := r.db.Query(ctx,
		`SELECT `+businessColumns+` FROM businesses`+filter+` ORDER BY created_at DESC, id LIMIT @limit OFFSET @offset`,
		args,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list businesses query: %w", err)
	}

	businesses, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Business])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect businesses: %w", err)
	}
	for i := range businesses {
		if businesses[i].Images == nil {
			businesses[i].Images = []string{}
		}
	}

	return businesses, total, nil
}

// AppendToArrayField appends value to the array column field unless it is
// already present, and returns the resulting row.
//
// The business_array_append procedure does this in one statement. When
// the procedure is missing the row is read, modified and written back
// without a lock, so two concurrent appends to the same row can lose one
// of the values.
func (r *BusinessRepository) AppendToArrayField(ctx context.Context, id uuid.UUID, field model.ArrayField, value string) (*model.Business, error) {
	column, ok := arrayColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported array field %q", field)
	}

	if !r.appendProcMissing.Load() {
		business, err := r.appendWithProcedure(ctx, id, column, value)
		if err == nil || !sqlerr.IsCode(err, sqlerr.UndefinedFunction) {
			return business, err
		}

		r.appendProcMissing.Store(true)
		r.logger.Warn().
			Err(err).
			Msg("business_array_append is not installed, falling back to read-modify-write appends")
	}

	return r.appendReadModifyWrite(ctx, id, column, value)
}

func (r *BusinessRepository) appendWithProcedure(ctx context.Context, id uuid.UUID, column, value string) (*model.Business, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+businessColumns+` FROM business_array_append(@id, @field, @value)`,
		pgx.NamedArgs{"id": id, "field": column, "value": value},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute business_array_append: %w", err)
	}

	return collectBusiness(rows, "append to")
}

func (r *BusinessRepository) appendReadModifyWrite(ctx context.Context, id uuid.UUID, column, value string) (*model.Business, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	values := arrayValue(current, column)
	if slices.Contains(values, value) {
		return current, nil
	}
	values = append(slices.Clone(values), value)

	ident := pgx.Identifier{column}.Sanitize()
	rows, err := r.db.Query(ctx,
		`UPDATE businesses SET `+ident+` = @values WHERE id = @id RETURNING `+businessColumns,
		pgx.NamedArgs{"id": id, "values": values},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute append update: %w", err)
	}

	return collectBusiness(rows, "append to")
}

// RemoveFromArrayField removes every occurrence of value in one statement.
// Removing a value that is not present returns the unchanged row.
func (r *BusinessRepository) RemoveFromArrayField(ctx context.Context, id uuid.UUID, field model.ArrayField, value string) (*model.Business, error) {
	column, ok := arrayColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported array field %q", field)
	}

	ident := pgx.Identifier{column}.Sanitize()
	rows, err := r.db.Query(ctx,
		`UPDATE businesses SET `+ident+` = array_remove(`+ident+`, @value)
		 WHERE id = @id AND @value = ANY(`+ident+`)
		 RETURNING `+businessColumns,
		pgx.NamedArgs{"id": id, "value": value},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute array remove: %w", err)
	}

	business, err := collectBusiness(rows, "remove from")
	if errs.KindOf(err) == errs.KindNotFound {
		return r.GetByID(ctx, id)
	}
	return business, err
}

func arrayValue(b *model.Business, column string) []string {
	switch column {
	case "images":
		return b.Images
	default:
		return nil
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
