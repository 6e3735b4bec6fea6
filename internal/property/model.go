package property

import (
	"net/http"
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "property not found")
	ErrImageNotFound    = apperror.New(http.StatusNotFound, "property image not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrEmptyAddress     = apperror.New(http.StatusBadRequest, "address and city are required")
	ErrInvalidSlug      = apperror.New(http.StatusBadRequest, "slug may only contain lowercase letters, digits and single hyphens")
	ErrSlugTaken        = apperror.New(http.StatusConflict, "slug is already in use")
	ErrUnknownAmenity   = apperror.New(http.StatusBadRequest, "unknown amenity")
	ErrInvalidImageType = apperror.New(http.StatusBadRequest, "image_type must be one of exterior, interior, amenity, gallery")
)

// Property is a building offering furnished units.
type Property struct {
	ID               string
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	Address          string
	City             string
	Country          string
	Latitude         *float64
	Longitude        *float64
	PropertyType     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ImageType string

const (
	ImageExterior ImageType = "exterior"
	ImageInterior ImageType = "interior"
	ImageAmenity  ImageType = "amenity"
	ImageGallery  ImageType = "gallery"
)

func (t ImageType) Valid() bool {
	switch t {
	case ImageExterior, ImageInterior, ImageAmenity, ImageGallery:
		return true
	}
	return false
}

// Image is a photo attached to a property.
type Image struct {
	ID           string
	PropertyID   string
	MediaID      string // empty for externally hosted images
	URL          string
	ThumbnailURL string
	AltText      string
	ImageType    ImageType
	DisplayOrder int
	CreatedAt    time.Time
}

type Amenity struct {
	ID       string
	Name     string
	Icon     string
	Category string
}

// Detail is a property with its gallery and amenities.
type Detail struct {
	Property
	Images    []Image
	Amenities []Amenity
}

// Filter defines parameters for listing properties.
type Filter struct {
	City     string
	Keyword  string // matches name or address
	Page     int
	PageSize int
}
