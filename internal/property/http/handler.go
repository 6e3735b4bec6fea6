package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/ketensuites/keten-backend/internal/media"
	mediahttp "github.com/ketensuites/keten-backend/internal/media/http"
	"github.com/ketensuites/keten-backend/internal/pkg/request"
	"github.com/ketensuites/keten-backend/internal/pkg/response"
	"github.com/ketensuites/keten-backend/internal/property"
	"github.com/ketensuites/keten-backend/internal/unit"
	unithttp "github.com/ketensuites/keten-backend/internal/unit/http"
)

// Uploader stores a multipart upload and hands the media to a hook.
type Uploader interface {
	HandleUpload(c *gin.Context, cfg mediahttp.UploadConfig)
}

type Handler struct {
	service     property.Service
	unitService unit.Service
	uploader    Uploader
	maxUpload   int64
}

func NewHandler(service property.Service, unitService unit.Service, uploader Uploader, maxUploadBytes int64) *Handler {
	return &Handler{
		service:     service,
		unitService: unitService,
		uploader:    uploader,
		maxUpload:   maxUploadBytes,
	}
}

// List retrieves a paginated list of properties.
func (h *Handler) List(c *gin.Context) {
	var q ListPropertiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	q.Normalize()

	props, total, err := h.service.List(c.Request.Context(), property.Filter{
		City:     q.City,
		Keyword:  q.Keyword,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PropertyResponse, len(props))
	for i, p := range props {
		items[i] = NewPropertyResponse(p)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

// Get returns the property page with its gallery, amenities and units.
func (h *Handler) Get(c *gin.Context) {
	var uri request.BySlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid slug", err)
		return
	}

	d, err := h.service.GetBySlug(c.Request.Context(), uri.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	units, err := h.unitService.ListByProperty(c.Request.Context(), d.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := DetailResponse{
		PropertyResponse: NewPropertyResponse(&d.Property),
		Images:           make([]ImageResponse, len(d.Images)),
		Amenities:        newAmenityResponses(d.Amenities),
		Units:            make([]unithttp.UnitResponse, len(units)),
	}
	for i := range d.Images {
		resp.Images[i] = NewImageResponse(&d.Images[i])
	}
	for i, u := range units {
		resp.Units[i] = unithttp.NewUnitResponse(u)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreatePropertyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), property.CreateRequest{
		Name:             body.Name,
		Slug:             body.Slug,
		Description:      body.Description,
		ShortDescription: body.ShortDescription,
		Address:          body.Address,
		City:             body.City,
		Country:          body.Country,
		Latitude:         body.Latitude,
		Longitude:        body.Longitude,
		PropertyType:     body.PropertyType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPropertyResponse(p))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var body UpdatePropertyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), uri.ID, property.UpdateRequest{
		Name:             body.Name,
		Slug:             body.Slug,
		Description:      body.Description,
		ShortDescription: body.ShortDescription,
		Address:          body.Address,
		City:             body.City,
		Country:          body.Country,
		Latitude:         body.Latitude,
		Longitude:        body.Longitude,
		PropertyType:     body.PropertyType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores a photo and attaches it to the property gallery.
func (h *Handler) UploadImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var form ImageForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		response.BadRequest(c, "invalid form fields", err)
		return
	}

	h.uploader.HandleUpload(c, mediahttp.UploadConfig{
		MaxSizeBytes: h.maxUpload,
		AllowedTypes: media.ImageTypes,
		AfterUpload: func(ctx context.Context, m *media.Media) (any, error) {
			img, err := h.service.AddImage(ctx, uri.ID, m, property.AddImageRequest{
				AltText:      form.AltText,
				ImageType:    property.ImageType(form.ImageType),
				DisplayOrder: form.DisplayOrder,
			})
			if err != nil {
				return nil, err
			}
			return NewImageResponse(img), nil
		},
	})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	var uri ImageURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	if err := h.service.RemoveImage(c.Request.Context(), uri.ID, uri.ImageID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAmenities replaces the amenity list of a property.
func (h *Handler) SetAmenities(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var body SetAmenitiesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	amenities, err := h.service.SetAmenities(c.Request.Context(), uri.ID, body.AmenityIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newAmenityResponses(amenities)))
}
