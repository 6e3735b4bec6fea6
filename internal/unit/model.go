package unit

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "unit not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidType      = apperror.New(http.StatusBadRequest, "unknown unit type")
	ErrInvalidProperty  = apperror.New(http.StatusBadRequest, "invalid property_id")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "capacity must be at least 1")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "base_price_per_month must be positive")
	ErrInvalidDiscount  = apperror.New(http.StatusBadRequest, "discount_percentage must be between 0 and 100")
	ErrInvalidSlug      = apperror.New(http.StatusBadRequest, "slug may only contain lowercase letters, digits and single hyphens")
	ErrSlugTaken        = apperror.New(http.StatusConflict, "slug is already in use")
	ErrInvalidSortKey   = apperror.New(http.StatusBadRequest, "sort must be one of price_asc, price_desc, capacity_asc, capacity_desc")
	ErrIncompleteWindow = apperror.New(http.StatusBadRequest, "start_date and end_date must be given together")
	ErrHasBookings      = apperror.New(http.StatusConflict, "unit has bookings and cannot be deleted")
)

type Type string

const (
	TypeEconomy1Plus1      Type = "1+1-economy"
	TypePremium1Plus1      Type = "1+1-premium"
	TypeEconomy2Plus1      Type = "2+1-economy"
	TypeFamilyDuplex2Plus1 Type = "2+1-family-duplex"
	TypeFamilyDuplex3Plus1 Type = "3+1-family-duplex"
)

// Types lists every unit type in catalogue order.
var Types = []Type{
	TypeEconomy1Plus1,
	TypePremium1Plus1,
	TypeEconomy2Plus1,
	TypeFamilyDuplex2Plus1,
	TypeFamilyDuplex3Plus1,
}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Features describes the physical layout of a unit.
type Features struct {
	SquareMeters int    `json:"square_meters"`
	Floor        string `json:"floor,omitempty"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	HasTerrace   bool   `json:"has_terrace"`
	HasBalcony   bool   `json:"has_balcony"`
	ViewType     string `json:"view_type,omitempty"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

type Amenity struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

// Unit is a bookable apartment inside a property.
type Unit struct {
	ID                 string
	PropertyID         string
	PropertyName       string
	PropertySlug       string
	Name               string
	Slug               string
	Type               Type
	Capacity           int
	BasePricePerMonth  decimal.Decimal
	DiscountPercentage decimal.Decimal
	Description        string
	ShortDescription   string
	Features           Features
	Images             []Image
	Amenities          []Amenity
	IsFeatured         bool
	DisplayOrder       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Filter narrows the rows loaded from the store.
type Filter struct {
	PropertyID string
	Featured   *bool
}
