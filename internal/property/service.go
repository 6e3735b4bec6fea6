package property

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/media"
	"github.com/ketensuites/keten-backend/internal/pkg/slug"
)

type CreateRequest struct {
	Name             string
	Slug             string // derived from Name when empty
	Description      string
	ShortDescription string
	Address          string
	City             string
	Country          string
	Latitude         *float64
	Longitude        *float64
	PropertyType     string
}

type UpdateRequest struct {
	Name             *string
	Slug             *string
	Description      *string
	ShortDescription *string
	Address          *string
	City             *string
	Country          *string
	Latitude         *float64
	Longitude        *float64
	PropertyType     *string
}

type AddImageRequest struct {
	AltText      string
	ImageType    ImageType
	DisplayOrder int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
	// GetBySlug returns the property with its gallery and amenities.
	GetBySlug(ctx context.Context, slug string) (*Detail, error)
	List(ctx context.Context, filter Filter) ([]*Property, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Property, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, propertyID string, m *media.Media, req AddImageRequest) (*Image, error)
	RemoveImage(ctx context.Context, propertyID, imageID string) error
	SetAmenities(ctx context.Context, propertyID string, amenityIDs []string) ([]Amenity, error)
}

type service struct {
	repo   Repository
	media  media.Service
	logger *zap.Logger
}

func NewService(repo Repository, mediaService media.Service, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, media: mediaService, logger: logger}
}

func normalizeSlug(explicit, name string) (string, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Make(name)
	}
	if !slug.Valid(s) {
		return "", ErrInvalidSlug
	}
	return s, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Property, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Address) == "" || strings.TrimSpace(req.City) == "" {
		return nil, ErrEmptyAddress
	}
	sl, err := normalizeSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	country := req.Country
	if country == "" {
		country = "Turkey"
	}

	p := &Property{
		Name:             strings.TrimSpace(req.Name),
		Slug:             sl,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Address:          req.Address,
		City:             req.City,
		Country:          country,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		PropertyType:     req.PropertyType,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Detail, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.ListImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	amenities, err := s.repo.ListAmenities(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Property: *p, Images: images, Amenities: amenities}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Property, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		if p.Slug, err = normalizeSlug(*req.Slug, p.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ShortDescription != nil {
		p.ShortDescription = *req.ShortDescription
	}
	if req.Address != nil {
		if strings.TrimSpace(*req.Address) == "" {
			return nil, ErrEmptyAddress
		}
		p.Address = *req.Address
	}
	if req.City != nil {
		if strings.TrimSpace(*req.City) == "" {
			return nil, ErrEmptyAddress
		}
		p.City = *req.City
	}
	if req.Country != nil {
		p.Country = *req.Country
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	images, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range images {
		if img.MediaID != "" {
			// The property is gone already; a leftover file is only logged.
			if err := s.media.Delete(ctx, img.MediaID); err != nil {
				s.logger.Warn("property media not removed",
					zap.String("property_id", id), zap.String("media_id", img.MediaID), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *service) AddImage(ctx context.Context, propertyID string, m *media.Media, req AddImageRequest) (*Image, error) {
	if req.ImageType == "" {
		req.ImageType = ImageGallery
	}
	if !req.ImageType.Valid() {
		return nil, ErrInvalidImageType
	}
	if _, err := s.repo.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	img := &Image{
		PropertyID:   propertyID,
		MediaID:      m.ID,
		URL:          media.URL(m.ID),
		AltText:      req.AltText,
		ImageType:    req.ImageType,
		DisplayOrder: req.DisplayOrder,
	}
	if m.ThumbnailPath != nil {
		img.ThumbnailURL = media.ThumbnailURL(m.ID)
	}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *service) RemoveImage(ctx context.Context, propertyID, imageID string) error {
	img, err := s.repo.DeleteImage(ctx, propertyID, imageID)
	if err != nil {
		return err
	}
	if img.MediaID != "" {
		return s.media.Delete(ctx, img.MediaID)
	}
	return nil
}

func (s *service) SetAmenities(ctx context.Context, propertyID string, amenityIDs []string) ([]Amenity, error) {
	if _, err := s.repo.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(amenityIDs))
	unique := amenityIDs[:0:0]
	for _, id := range amenityIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if err := s.repo.SetAmenities(ctx, propertyID, unique); err != nil {
		return nil, err
	}
	return s.repo.ListAmenities(ctx, propertyID)
}
