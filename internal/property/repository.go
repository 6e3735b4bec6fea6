package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ketensuites/keten-backend/internal/db"
)

// Repository defines data access methods for properties.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	GetBySlug(ctx context.Context, slug string) (*Property, error)
	List(ctx context.Context, filter Filter) ([]*Property, int, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error
	// Gallery
	ListImages(ctx context.Context, propertyID string) ([]Image, error)
	AddImage(ctx context.Context, img *Image) error
	DeleteImage(ctx context.Context, propertyID, imageID string) (*Image, error)
	// Amenities
	ListAmenities(ctx context.Context, propertyID string) ([]Amenity, error)
	SetAmenities(ctx context.Context, propertyID string, amenityIDs []string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var propertyColumns = []string{
	"id", "name", "slug", "COALESCE(description, '')", "COALESCE(short_description, '')",
	"address", "city", "country", "latitude", "longitude", "COALESCE(property_type, '')",
	"created_at", "updated_at",
}

func scanProperty(row pgx.Row, extra ...any) (*Property, error) {
	var p Property
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.Address, &p.City, &p.Country, &p.Latitude, &p.Longitude, &p.PropertyType,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Property) error {
	query, args, err := psql.Insert("public.properties").
		Columns(
			"name", "slug", "description", "short_description", "address", "city", "country",
			"latitude", "longitude", "property_type",
		).
		Values(
			p.Name, p.Slug, p.Description, p.ShortDescription, p.Address, p.City, p.Country,
			p.Latitude, p.Longitude, p.PropertyType,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Property, error) {
	query, args, err := psql.Select(propertyColumns...).
		From("public.properties").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get property query failed: %w", err)
	}

	p, err := scanProperty(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get property failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Property, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Property, int, error) {
	query := psql.Select(append(propertyColumns, "count(*) OVER() AS total_count")...).
		From("public.properties")

	if filter.City != "" {
		query = query.Where(squirrel.ILike{"city": filter.City})
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"address": pattern},
		})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list properties query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties failed: %w", err)
	}
	defer rows.Close()

	var (
		result []*Property
		total  int
	)
	for rows.Next() {
		p, err := scanProperty(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan property failed: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties failed: %w", err)
	}
	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Property) error {
	query, args, err := psql.Update("public.properties").
		SetMap(map[string]any{
			"name":              p.Name,
			"slug":              p.Slug,
			"description":       p.Description,
			"short_description": p.ShortDescription,
			"address":           p.Address,
			"city":              p.City,
			"country":           p.Country,
			"latitude":          p.Latitude,
			"longitude":         p.Longitude,
			"property_type":     p.PropertyType,
			"updated_at":        squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case db.IsUniqueViolation(err):
			return ErrSlugTaken
		}
		return fmt.Errorf("update property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListImages(ctx context.Context, propertyID string) ([]Image, error) {
	query, args, err := psql.Select(
		"id", "property_id", "COALESCE(media_id::text, '')", "url", "COALESCE(thumbnail_url, '')",
		"COALESCE(alt_text, '')", "image_type", "display_order", "created_at",
	).
		From("public.images").
		Where(squirrel.Eq{"property_id": propertyID}).
		OrderBy("display_order ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list images query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images failed: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(
			&img.ID, &img.PropertyID, &img.MediaID, &img.URL, &img.ThumbnailURL,
			&img.AltText, &img.ImageType, &img.DisplayOrder, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan image failed: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *pgxRepository) AddImage(ctx context.Context, img *Image) error {
	var mediaID any
	if img.MediaID != "" {
		mediaID = img.MediaID
	}

	query, args, err := psql.Insert("public.images").
		Columns("property_id", "media_id", "url", "thumbnail_url", "alt_text", "image_type", "display_order").
		Values(img.PropertyID, mediaID, img.URL, img.ThumbnailURL, img.AltText, img.ImageType, img.DisplayOrder).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add image query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&img.ID, &img.CreatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("add image failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteImage(ctx context.Context, propertyID, imageID string) (*Image, error) {
	query, args, err := psql.Delete("public.images").
		Where(squirrel.Eq{"id": imageID, "property_id": propertyID}).
		Suffix("RETURNING id, COALESCE(media_id::text, '')").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete image query failed: %w", err)
	}

	img := Image{PropertyID: propertyID}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&img.ID, &img.MediaID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("delete image failed: %w", err)
	}
	return &img, nil
}

func (r *pgxRepository) ListAmenities(ctx context.Context, propertyID string) ([]Amenity, error) {
	query, args, err := psql.Select("a.id", "a.name", "COALESCE(a.icon, '')", "a.category").
		From("public.amenities a").
		Join("public.property_amenities pa ON pa.amenity_id = a.id").
		Where(squirrel.Eq{"pa.property_id": propertyID}).
		OrderBy("a.category ASC", "a.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list amenities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list amenities failed: %w", err)
	}
	defer rows.Close()

	var amenities []Amenity
	for rows.Next() {
		var a Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Icon, &a.Category); err != nil {
			return nil, fmt.Errorf("scan amenity failed: %w", err)
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}

// SetAmenities replaces the amenity list of a property atomically.
func (r *pgxRepository) SetAmenities(ctx context.Context, propertyID string, amenityIDs []string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM public.property_amenities WHERE property_id = $1`, propertyID); err != nil {
			return fmt.Errorf("clear amenities failed: %w", err)
		}
		if len(amenityIDs) == 0 {
			return nil
		}

		insert := psql.Insert("public.property_amenities").Columns("property_id", "amenity_id")
		for _, id := range amenityIDs {
			insert = insert.Values(propertyID, id)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build set amenities query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			if db.IsForeignKeyViolation(err) {
				return ErrUnknownAmenity
			}
			return fmt.Errorf("set amenities failed: %w", err)
		}
		return nil
	})
}
