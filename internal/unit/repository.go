package unit

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, u *Unit) error
	GetByID(ctx context.Context, id string) (*Unit, error)
	GetBySlug(ctx context.Context, slug string) (*Unit, error)
	// List returns every unit matching filter in display order.
	List(ctx context.Context, filter Filter) ([]*Unit, error)
	Update(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var unitColumns = []string{
	"u.id", "u.property_id", "p.name", "p.slug", "u.name", "u.slug", "u.unit_type", "u.capacity",
	"u.base_price_per_month::text", "u.discount_percentage::text",
	"COALESCE(u.description, '')", "COALESCE(u.short_description, '')",
	"u.features", "u.images", "u.amenities", "u.is_featured", "u.display_order",
	"u.created_at", "u.updated_at",
}

func selectUnits() squirrel.SelectBuilder {
	return psql.Select(unitColumns...).
		From("public.units u").
		Join("public.properties p ON p.id = u.property_id")
}

func scanUnit(row pgx.Row) (*Unit, error) {
	var (
		u               Unit
		price, discount string
	)
	if err := row.Scan(
		&u.ID, &u.PropertyID, &u.PropertyName, &u.PropertySlug, &u.Name, &u.Slug, &u.Type, &u.Capacity,
		&price, &discount,
		&u.Description, &u.ShortDescription,
		&u.Features, &u.Images, &u.Amenities, &u.IsFeatured, &u.DisplayOrder,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if u.BasePricePerMonth, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse base price of unit %s: %w", u.ID, err)
	}
	if u.DiscountPercentage, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("parse discount of unit %s: %w", u.ID, err)
	}
	return &u, nil
}

// jsonb columns are NOT NULL; nil slices are stored as empty arrays.
func jsonArrays(u *Unit) (images []Image, amenities []Amenity) {
	images, amenities = u.Images, u.Amenities
	if images == nil {
		images = []Image{}
	}
	if amenities == nil {
		amenities = []Amenity{}
	}
	return images, amenities
}

func (r *pgxRepository) Create(ctx context.Context, u *Unit) error {
	images, amenities := jsonArrays(u)

	query, args, err := psql.Insert("public.units").
		Columns(
			"property_id", "name", "slug", "unit_type", "capacity",
			"base_price_per_month", "discount_percentage", "description", "short_description",
			"features", "images", "amenities", "is_featured", "display_order",
		).
		Values(
			u.PropertyID, u.Name, u.Slug, u.Type, u.Capacity,
			u.BasePricePerMonth.String(), u.DiscountPercentage.String(), u.Description, u.ShortDescription,
			u.Features, images, amenities, u.IsFeatured, u.DisplayOrder,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create unit query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return ErrSlugTaken
		case db.IsForeignKeyViolation(err):
			return ErrInvalidProperty
		}
		return fmt.Errorf("create unit failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Unit, error) {
	query, args, err := selectUnits().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get unit query failed: %w", err)
	}

	u, err := scanUnit(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get unit failed: %w", err)
	}
	return u, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Unit, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Unit, error) {
	return r.getOne(ctx, squirrel.Eq{"u.slug": slug})
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Unit, error) {
	query := selectUnits()
	if filter.PropertyID != "" {
		query = query.Where(squirrel.Eq{"u.property_id": filter.PropertyID})
	}
	if filter.Featured != nil {
		query = query.Where(squirrel.Eq{"u.is_featured": *filter.Featured})
	}

	sql, args, err := query.OrderBy("u.display_order ASC", "u.created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list units query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list units failed: %w", err)
	}
	defer rows.Close()

	var units []*Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit failed: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units failed: %w", err)
	}
	return units, nil
}

func (r *pgxRepository) Update(ctx context.Context, u *Unit) error {
	images, amenities := jsonArrays(u)

	query, args, err := psql.Update("public.units").
		SetMap(map[string]any{
			"name":                 u.Name,
			"slug":                 u.Slug,
			"unit_type":            u.Type,
			"capacity":             u.Capacity,
			"base_price_per_month": u.BasePricePerMonth.String(),
			"discount_percentage":  u.DiscountPercentage.String(),
			"description":          u.Description,
			"short_description":    u.ShortDescription,
			"features":             u.Features,
			"images":               images,
			"amenities":            amenities,
			"is_featured":          u.IsFeatured,
			"display_order":        u.DisplayOrder,
			"updated_at":           squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update unit query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case db.IsUniqueViolation(err):
			return ErrSlugTaken
		}
		return fmt.Errorf("update unit failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.units WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrHasBookings
		}
		return fmt.Errorf("delete unit failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
