package http

import (
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/request"
	"github.com/ketensuites/keten-backend/internal/property"
	unithttp "github.com/ketensuites/keten-backend/internal/unit/http"
)

type PropertyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
	PropertyType     string    `json:"property_type"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Address:          p.Address,
		City:             p.City,
		Country:          p.Country,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		PropertyType:     p.PropertyType,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type ImageResponse struct {
	ID           string             `json:"id"`
	URL          string             `json:"url"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	AltText      string             `json:"alt_text"`
	ImageType    property.ImageType `json:"image_type"`
	DisplayOrder int                `json:"display_order"`
}

func NewImageResponse(img *property.Image) ImageResponse {
	return ImageResponse{
		ID:           img.ID,
		URL:          img.URL,
		ThumbnailURL: img.ThumbnailURL,
		AltText:      img.AltText,
		ImageType:    img.ImageType,
		DisplayOrder: img.DisplayOrder,
	}
}

type AmenityResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

func newAmenityResponses(amenities []property.Amenity) []AmenityResponse {
	out := make([]AmenityResponse, len(amenities))
	for i, a := range amenities {
		out[i] = AmenityResponse{ID: a.ID, Name: a.Name, Icon: a.Icon, Category: a.Category}
	}
	return out
}

// DetailResponse is the public property page: gallery, amenities and units.
type DetailResponse struct {
	PropertyResponse
	Images    []ImageResponse         `json:"images"`
	Amenities []AmenityResponse       `json:"amenities"`
	Units     []unithttp.UnitResponse `json:"units"`
}

type ListPropertiesQuery struct {
	request.ListParams
	City    string `form:"city" binding:"omitempty,max=100"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

type CreatePropertyRequest struct {
	Name             string   `json:"name" binding:"required,max=200"`
	Slug             string   `json:"slug" binding:"omitempty,max=200"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description" binding:"max=500"`
	Address          string   `json:"address" binding:"required"`
	City             string   `json:"city" binding:"required,max=100"`
	Country          string   `json:"country" binding:"omitempty,max=100"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	PropertyType     string   `json:"property_type" binding:"omitempty,max=50"`
}

type UpdatePropertyRequest struct {
	Name             *string  `json:"name" binding:"omitempty,max=200"`
	Slug             *string  `json:"slug" binding:"omitempty,max=200"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"short_description" binding:"omitempty,max=500"`
	Address          *string  `json:"address"`
	City             *string  `json:"city" binding:"omitempty,max=100"`
	Country          *string  `json:"country" binding:"omitempty,max=100"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	PropertyType     *string  `json:"property_type" binding:"omitempty,max=50"`
}

// ImageForm accompanies the multipart image upload.
type ImageForm struct {
	AltText      string `form:"alt_text" binding:"max=300"`
	ImageType    string `form:"image_type" binding:"omitempty,oneof=exterior interior amenity gallery"`
	DisplayOrder int    `form:"display_order" binding:"min=0"`
}

type ImageURIRequest struct {
	ID      string `uri:"id" binding:"required,uuid"`
	ImageID string `uri:"image_id" binding:"required,uuid"`
}

type SetAmenitiesRequest struct {
	AmenityIDs []string `json:"amenity_ids" binding:"omitempty,dive,uuid"`
}
