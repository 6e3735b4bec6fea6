package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/unit"
)

const (
	propertyID = "6f1c7a8e-0b1e-4a53-9a3d-3c0b8c2f6a10"
	unitID     = "0a6c2d4e-5f70-4b8a-9c1d-2e3f4a5b6c7d"
)

type fakeService struct {
	units      []*unit.Unit
	lastSearch *unit.SearchRequest
	created    *unit.CreateRequest
}

func (f *fakeService) Search(_ context.Context, req unit.SearchRequest) ([]unit.Listing, error) {
	f.lastSearch = &req
	matched, err := unit.FilterAndSort(f.units, unit.Criteria{Type: req.Criteria.Type, MinCapacity: req.Criteria.MinCapacity}, req.Sort, nil)
	if err != nil {
		return nil, err
	}
	out := make([]unit.Listing, len(matched))
	for i, u := range matched {
		out[i] = unit.Listing{Unit: u}
		if req.Criteria.Window != nil {
			ok := true
			out[i].Available = &ok
		}
	}
	return out, nil
}

func (f *fakeService) GetByID(_ context.Context, id string) (*unit.Unit, error) {
	for _, u := range f.units {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, unit.ErrNotFound
}

func (f *fakeService) GetBySlug(_ context.Context, slug string) (*unit.Unit, error) {
	for _, u := range f.units {
		if u.Slug == slug {
			return u, nil
		}
	}
	return nil, unit.ErrNotFound
}

func (f *fakeService) ListByProperty(context.Context, string) ([]*unit.Unit, error) {
	return f.units, nil
}

func (f *fakeService) BlockedDates(ctx context.Context, slug string) (*unit.Unit, []daterange.Date, error) {
	u, err := f.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return u, nil, nil
}

func (f *fakeService) Quote(ctx context.Context, slug string, window daterange.Interval) (*unit.QuoteResult, error) {
	u, err := f.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	q, err := pricing.DefaultPolicy().Quote(u.BasePricePerMonth, u.DiscountPercentage, window)
	if err != nil {
		return nil, err
	}
	return &unit.QuoteResult{Unit: u, Window: window, Quote: q, Available: true}, nil
}

func (f *fakeService) Create(_ context.Context, req unit.CreateRequest) (*unit.Unit, error) {
	f.created = &req
	return &unit.Unit{ID: unitID, PropertyID: req.PropertyID, Name: req.Name, Type: req.Type}, nil
}

func (f *fakeService) Update(ctx context.Context, id string, req unit.UpdateRequest) (*unit.Unit, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Capacity != nil {
		u.Capacity = *req.Capacity
	}
	return u, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	_, err := f.GetByID(ctx, id)
	return err
}

func newFakeService() *fakeService {
	return &fakeService{units: []*unit.Unit{
		{ID: "a", Slug: "premium", PropertyID: propertyID, Type: unit.TypePremium1Plus1, Capacity: 2, BasePricePerMonth: decimal.NewFromInt(22000)},
		{ID: unitID, Slug: "economy-2", PropertyID: propertyID, Type: unit.TypeEconomy2Plus1, Capacity: 4, BasePricePerMonth: decimal.NewFromInt(15000)},
	}}
}

func setupRouter(svc unit.Service, staff bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		if !staff {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		}
	}
	pass := func(c *gin.Context) {}
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth, pass)
	return r
}

func executeRequest(r http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type listBody struct {
	Items []struct {
		ID        string `json:"id"`
		Available *bool  `json:"available"`
	} `json:"items"`
	Count int `json:"count"`
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("Default sort is price ascending", func(t *testing.T) {
		r := setupRouter(newFakeService(), false)
		w := executeRequest(r, "GET", "/v1/units?min_capacity=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp listBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 2, resp.Count)
		assert.Equal(t, unitID, resp.Items[0].ID)
		assert.Equal(t, "a", resp.Items[1].ID)
		assert.Nil(t, resp.Items[0].Available)
	})

	t.Run("Window is parsed and passed on", func(t *testing.T) {
		svc := newFakeService()
		r := setupRouter(svc, false)
		w := executeRequest(r, "GET", "/v1/units?start_date=2024-03-01&end_date=2024-04-01&sort=capacity_desc&include_unavailable=true", nil)
		require.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, svc.lastSearch)
		require.NotNil(t, svc.lastSearch.Criteria.Window)
		assert.Equal(t, 31, svc.lastSearch.Criteria.Window.Nights())
		assert.Equal(t, unit.SortCapacityDesc, svc.lastSearch.Sort)
		assert.True(t, svc.lastSearch.IncludeUnavailable)

		var resp listBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Items[0].Available)
	})

	t.Run("Empty result is an empty list", func(t *testing.T) {
		r := setupRouter(newFakeService(), false)
		w := executeRequest(r, "GET", "/v1/units?min_capacity=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"count":0}`, w.Body.String())
	})

	tests := []struct {
		name  string
		query string
	}{
		{name: "Unknown sort", query: "?sort=name"},
		{name: "Half window", query: "?start_date=2024-03-01"},
		{name: "Zero-length window", query: "?start_date=2024-03-01&end_date=2024-03-01"},
		{name: "Malformed date", query: "?start_date=01/03/2024&end_date=2024-03-05"},
		{name: "Negative capacity", query: "?min_capacity=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(newFakeService(), false)
			w := executeRequest(r, "GET", "/v1/units"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetEndpoints(t *testing.T) {
	r := setupRouter(newFakeService(), false)

	w := executeRequest(r, "GET", "/v1/units/premium", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u UnitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, unit.TypePremium1Plus1, u.UnitType)
	assert.NotNil(t, u.Images)

	w = executeRequest(r, "GET", "/v1/units/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = executeRequest(r, "GET", "/v1/units/premium/blocked-dates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"blocked_dates":[]`)
}

func TestQuoteEndpoint(t *testing.T) {
	r := setupRouter(newFakeService(), false)

	w := executeRequest(r, "GET", "/v1/units/premium/quote?start_date=2024-03-01&end_date=2024-03-08", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Nights)
	assert.Equal(t, "5133.33", resp.BaseRent)
	assert.Equal(t, "1026.67", resp.Deposit)
	assert.Equal(t, "6160.00", resp.Total)

	w = executeRequest(r, "GET", "/v1/units/premium/quote?start_date=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffEndpoints(t *testing.T) {
	body := CreateUnitRequest{
		PropertyID:        propertyID,
		Name:              "1+1 Economy",
		UnitType:          string(unit.TypeEconomy1Plus1),
		Capacity:          2,
		BasePricePerMonth: decimal.NewFromInt(15000),
	}

	t.Run("Requires staff", func(t *testing.T) {
		r := setupRouter(newFakeService(), false)
		w := executeRequest(r, "POST", "/v1/units", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create", func(t *testing.T) {
		svc := newFakeService()
		r := setupRouter(svc, true)
		w := executeRequest(r, "POST", "/v1/units", body)
		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.created)
		assert.True(t, svc.created.BasePricePerMonth.Equal(decimal.NewFromInt(15000)))
		assert.Equal(t, unit.TypeEconomy1Plus1, svc.created.Type)
	})

	t.Run("Update", func(t *testing.T) {
		r := setupRouter(newFakeService(), true)
		w := executeRequest(r, "PATCH", "/v1/units/"+unitID, map[string]any{"capacity": 5})
		require.Equal(t, http.StatusOK, w.Code)
		var u UnitResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
		assert.Equal(t, 5, u.Capacity)
	})

	t.Run("Delete", func(t *testing.T) {
		r := setupRouter(newFakeService(), true)
		w := executeRequest(r, "DELETE", "/v1/units/"+unitID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest(r, "DELETE", "/v1/units/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
