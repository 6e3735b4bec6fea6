package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ketensuites/keten-backend/internal/db"
)

// Repository defines methods for accessing staff accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
	Create(ctx context.Context, s *Staff) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Staff, error) {
	query, args, err := psql.Select(
		"id", "email", "password_hash", "COALESCE(display_name, '')",
		"role", "is_active", "created_at", "last_login_at",
	).
		From("public.staff").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get staff query failed: %w", err)
	}

	var s Staff
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.DisplayName,
		&s.Role, &s.IsActive, &s.CreatedAt, &s.LastLoginAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get staff failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Staff, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) Create(ctx context.Context, s *Staff) error {
	var displayName any
	if s.DisplayName != "" {
		displayName = s.DisplayName
	}

	query, args, err := psql.Insert("public.staff").
		Columns("email", "password_hash", "display_name", "role", "is_active").
		Values(s.Email, s.PasswordHash, displayName, s.Role, s.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create staff query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create staff failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	ct, err := r.pool.Exec(ctx, `UPDATE public.staff SET last_login_at = $1 WHERE id = $2`, t, id)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
