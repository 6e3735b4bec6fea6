package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) Create(ctx context.Context, m *Media) error {
	var uploadedBy any
	if m.UploadedBy != "" {
		uploadedBy = m.UploadedBy
	}

	query, args, err := psql.Insert("public.media").
		Columns("id", "uploaded_by", "filename", "storage_path", "thumbnail_path", "content_type", "size", "width", "height").
		Values(m.ID, uploadedBy, m.Filename, m.StoragePath, m.ThumbnailPath, m.ContentType, m.Size, m.Width, m.Height).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create media query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("create media failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Media, error) {
	query, args, err := psql.Select(
		"id", "COALESCE(uploaded_by::text, '')", "filename", "storage_path", "thumbnail_path",
		"content_type", "size", "width", "height", "created_at",
	).
		From("public.media").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get media query failed: %w", err)
	}

	var m Media
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.UploadedBy, &m.Filename, &m.StoragePath, &m.ThumbnailPath,
		&m.ContentType, &m.Size, &m.Width, &m.Height, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get media failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.media").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete media query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete media failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
