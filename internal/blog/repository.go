package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ketensuites/keten-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, filter Filter) ([]*Post, int, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var postColumns = []string{
	"id", "slug", "title", "COALESCE(excerpt, '')", "content",
	"COALESCE(featured_image_url, '')", "COALESCE(author_name, '')", "COALESCE(category, '')",
	"tags", "is_published", "published_at", "created_at", "updated_at",
}

func scanPost(row pgx.Row, extra ...any) (*Post, error) {
	var p Post
	dest := []any{
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content,
		&p.FeaturedImageURL, &p.AuthorName, &p.Category,
		&p.Tags, &p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *pgxRepository) Create(ctx context.Context, p *Post) error {
	query, args, err := psql.Insert("public.blog_posts").
		Columns("slug", "title", "excerpt", "content", "featured_image_url", "author_name",
			"category", "tags", "is_published", "published_at").
		Values(p.Slug, p.Title, nullable(p.Excerpt), p.Content, nullable(p.FeaturedImageURL),
			nullable(p.AuthorName), nullable(p.Category), tagsOrEmpty(p.Tags), p.IsPublished, p.PublishedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create post query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Post, error) {
	query, args, err := psql.Select(postColumns...).
		From("public.blog_posts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get post query failed: %w", err)
	}

	p, err := scanPost(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Post, int, error) {
	query := psql.Select(append(postColumns, "count(*) OVER() AS total_count")...).
		From("public.blog_posts")

	if !filter.IncludeDrafts {
		query = query.Where(squirrel.Eq{"is_published": true})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Tag != "" {
		query = query.Where(squirrel.Expr("? = ANY(tags)", filter.Tag))
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": "%" + filter.Keyword + "%"},
			squirrel.ILike{"excerpt": "%" + filter.Keyword + "%"},
		})
	}

	// Newest first; drafts have no publish date and sort by creation
	query = query.OrderBy("COALESCE(published_at, created_at) DESC", "id")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list posts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts failed: %w", err)
	}
	defer rows.Close()

	var (
		posts []*Post
		total int
	)
	for rows.Next() {
		p, err := scanPost(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post failed: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts failed: %w", err)
	}
	return posts, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Post) error {
	query, args, err := psql.Update("public.blog_posts").
		Set("slug", p.Slug).
		Set("title", p.Title).
		Set("excerpt", nullable(p.Excerpt)).
		Set("content", p.Content).
		Set("featured_image_url", nullable(p.FeaturedImageURL)).
		Set("author_name", nullable(p.AuthorName)).
		Set("category", nullable(p.Category)).
		Set("tags", tagsOrEmpty(p.Tags)).
		Set("is_published", p.IsPublished).
		Set("published_at", p.PublishedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update post query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case db.IsUniqueViolation(err):
			return ErrSlugTaken
		}
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
