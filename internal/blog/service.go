package blog

import (
	"context"
	"strings"
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/slug"
)

type CreateRequest struct {
	Title            string
	Slug             string // derived from Title when empty
	Excerpt          string
	Content          string
	FeaturedImageURL string
	AuthorName       string
	Category         string
	Tags             []string
	IsPublished      bool
}

type UpdateRequest struct {
	Title            *string
	Slug             *string
	Excerpt          *string
	Content          *string
	FeaturedImageURL *string
	AuthorName       *string
	Category         *string
	Tags             *[]string
	IsPublished      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	// GetPublished returns a published post; drafts are reported as not found.
	GetPublished(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, filter Filter) ([]*Post, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Post, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func normalizeSlug(explicit, title string) (string, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Make(title)
	}
	if !slug.Valid(s) {
		return "", ErrInvalidSlug
	}
	return s, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// publish stamps the first publication time and clears it on unpublish.
func (s *service) publish(p *Post, published bool) {
	p.IsPublished = published
	switch {
	case !published:
		p.PublishedAt = nil
	case p.PublishedAt == nil:
		now := s.now().UTC()
		p.PublishedAt = &now
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	sl, err := normalizeSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	p := &Post{
		Slug:             sl,
		Title:            strings.TrimSpace(req.Title),
		Excerpt:          strings.TrimSpace(req.Excerpt),
		Content:          req.Content,
		FeaturedImageURL: req.FeaturedImageURL,
		AuthorName:       strings.TrimSpace(req.AuthorName),
		Category:         strings.TrimSpace(req.Category),
		Tags:             cleanTags(req.Tags),
	}
	s.publish(p, req.IsPublished)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetPublished(ctx context.Context, slug string) (*Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Post, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		sl, err := normalizeSlug(*req.Slug, p.Title)
		if err != nil {
			return nil, err
		}
		p.Slug = sl
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrContentRequired
		}
		p.Content = *req.Content
	}
	if req.Excerpt != nil {
		p.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.FeaturedImageURL != nil {
		p.FeaturedImageURL = *req.FeaturedImageURL
	}
	if req.AuthorName != nil {
		p.AuthorName = strings.TrimSpace(*req.AuthorName)
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		p.Tags = cleanTags(*req.Tags)
	}
	if req.IsPublished != nil {
		s.publish(p, *req.IsPublished)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
