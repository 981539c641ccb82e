package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, first_name, last_name, image_url, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func collectUser(rows pgx.Rows, op string) (*model.User, error) {
	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to %s user: %w", op, err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user query: %w", err)
	}
	return collectUser(rows, "get")
}

// Insert creates the user row. created is false when a row with the same
// id already existed, in which case the existing row is returned.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) (user *model.User, created bool, err error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO users (id, email, first_name, last_name, image_url)
		VALUES (@id, @email, @first_name, @last_name, @image_url)
		ON CONFLICT (id) DO NOTHING
		RETURNING `+userColumns,
		pgx.NamedArgs{
			"id":         u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"image_url":  u.ImageURL,
		},
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to execute insert user query: %w", err)
	}

	user, err = collectUser(rows, "insert")
	if errs.KindOf(err) == errs.KindNotFound {
		user, err = r.GetByID(ctx, u.ID)
		return user, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, firstName, lastName *string) (*model.User, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE users
		SET first_name = COALESCE(@first_name, first_name),
		    last_name  = COALESCE(@last_name, last_name)
		WHERE id = @id
		RETURNING `+userColumns,
		pgx.NamedArgs{"id": id, "first_name": firstName, "last_name": lastName},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute update user query: %w", err)
	}
	return collectUser(rows, "update")
}
