package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/user"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func scanUser(row pgx.Row, identifier string) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", identifier)
		}
		return nil, apperror.NewInternal("failed to scan user row", err)
	}
	return u, nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, email, name, password_hash FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email), email)
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT id, email, name, password_hash FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id), id.String())
}
