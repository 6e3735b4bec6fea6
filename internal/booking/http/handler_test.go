package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ketensuites/keten-backend/internal/booking"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pricing"
)

const (
	propertyID = "6f1c7a8e-0b1e-4a53-9a3d-3c0b8c2f6a10"
	unitID     = "0a6c2d4e-5f70-4b8a-9c1d-2e3f4a5b6c7d"
	bookingID  = "3b9d1f2a-7c4e-4d8b-a1f0-5e6c7d8a9b0c"
	reference  = "KTN-20240215-ABC123"
)

type fakeService struct {
	booking.Service
	created    *booking.CreateRequest
	lastFilter booking.Filter
}

func sampleBooking() *booking.Booking {
	return &booking.Booking{
		ID:           bookingID,
		Reference:    reference,
		PropertyID:   propertyID,
		PropertyName: "Keten Suites",
		UnitID:       unitID,
		UnitName:     "Economy 1+1",
		GuestName:    "Ayşe Yılmaz",
		GuestEmail:   "ayse@example.com",
		Interval:     daterange.Interval{Start: daterange.MustParse("2024-03-01"), End: daterange.MustParse("2024-03-31")},
		TotalPrice:   decimal.NewFromInt(18000),
		Type:         booking.TypeRental,
		Status:       booking.StatusPending,
	}
}

func (f *fakeService) Create(_ context.Context, req booking.CreateRequest) (*booking.Created, error) {
	f.created = &req
	q, err := pricing.DefaultPolicy().Quote(decimal.NewFromInt(15000), decimal.Zero, req.Window)
	if err != nil {
		return nil, err
	}
	return &booking.Created{Booking: sampleBooking(), Quote: q}, nil
}

func (f *fakeService) GetByReference(_ context.Context, ref, email string) (*booking.Booking, error) {
	if ref != reference || email != "ayse@example.com" {
		return nil, booking.ErrNotFound
	}
	return sampleBooking(), nil
}

func (f *fakeService) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	if id != bookingID {
		return nil, booking.ErrNotFound
	}
	return sampleBooking(), nil
}

func (f *fakeService) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	f.lastFilter = filter
	return []*booking.Booking{sampleBooking()}, 1, nil
}

func (f *fakeService) UpdateStatus(_ context.Context, id string, status booking.Status) (*booking.Booking, error) {
	b := sampleBooking()
	b.Status = status
	return b, nil
}

func (f *fakeService) Export(_ context.Context, filter booking.Filter, w io.Writer) error {
	f.lastFilter = filter
	_, err := w.Write([]byte("PK"))
	return err
}

func setupRouter(svc booking.Service, staff bool) *gin.Engine {
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

func validBody() CreateBookingRequest {
	return CreateBookingRequest{
		PropertyID: propertyID,
		UnitID:     unitID,
		GuestName:  "Ayşe Yılmaz",
		GuestEmail: "ayse@example.com",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-31",
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("Returns the reference and quote", func(t *testing.T) {
		svc := &fakeService{}
		r := setupRouter(svc, false)

		w := executeRequest(r, "POST", "/v1/bookings", validBody())
		require.Equal(t, http.StatusCreated, w.Code)

		var resp CreatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, reference, resp.BookingReference)
		assert.Equal(t, "18000.00", resp.TotalPrice)
		assert.Equal(t, "3000.00", resp.Quote.Deposit)
		assert.Equal(t, "18000.00", resp.Quote.Total)
		require.NotNil(t, resp.Unit)
		assert.Equal(t, unitID, resp.Unit.ID)
		assert.Equal(t, 30, resp.Nights)

		require.NotNil(t, svc.created)
		assert.Equal(t, daterange.MustParse("2024-03-01"), svc.created.Window.Start)
	})

	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"Missing email", func(b *CreateBookingRequest) { b.GuestEmail = "" }},
		{"Invalid email", func(b *CreateBookingRequest) { b.GuestEmail = "ayse" }},
		{"Short name", func(b *CreateBookingRequest) { b.GuestName = "A" }},
		{"Bad property id", func(b *CreateBookingRequest) { b.PropertyID = "keten" }},
		{"Unknown booking type", func(b *CreateBookingRequest) { b.BookingType = "sale" }},
		{"Unparseable date", func(b *CreateBookingRequest) { b.StartDate = "01/03/2024" }},
		{"Inverted window", func(b *CreateBookingRequest) { b.StartDate, b.EndDate = "2024-03-31", "2024-03-01" }},
		{"Zero-length window", func(b *CreateBookingRequest) { b.EndDate = b.StartDate }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			body := validBody()
			tt.mutate(&body)

			w := executeRequest(setupRouter(svc, false), "POST", "/v1/bookings", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.created)
		})
	}
}

func TestGetByReference(t *testing.T) {
	r := setupRouter(&fakeService{}, false)

	w := executeRequest(r, "GET", "/v1/bookings/reference/"+reference+"?email=ayse@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = executeRequest(r, "GET", "/v1/bookings/reference/"+reference+"?email=other@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = executeRequest(r, "GET", "/v1/bookings/reference/"+reference, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffEndpoints(t *testing.T) {
	t.Run("Guests cannot list bookings", func(t *testing.T) {
		w := executeRequest(setupRouter(&fakeService{}, false), "GET", "/v1/bookings", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("List passes filters", func(t *testing.T) {
		svc := &fakeService{}
		r := setupRouter(svc, true)

		w := executeRequest(r, "GET", "/v1/bookings?status=pending&from=2024-03-01&to=2024-04-01&sort_by=created_at&sort_order=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, booking.StatusPending, svc.lastFilter.Status)
		require.NotNil(t, svc.lastFilter.From)
		assert.Equal(t, "2024-03-01", svc.lastFilter.From.String())
		assert.Equal(t, "created_at", svc.lastFilter.SortBy)
		assert.Equal(t, 1, svc.lastFilter.Page)
		assert.Equal(t, 20, svc.lastFilter.PageSize)
	})

	t.Run("List rejects bad filters", func(t *testing.T) {
		r := setupRouter(&fakeService{}, true)
		for _, url := range []string{
			"/v1/bookings?status=archived",
			"/v1/bookings?from=2024-04-01&to=2024-03-01",
			"/v1/bookings?from=tomorrow",
		} {
			w := executeRequest(r, "GET", url, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, url)
		}
	})

	t.Run("Get by id", func(t *testing.T) {
		r := setupRouter(&fakeService{}, true)
		w := executeRequest(r, "GET", "/v1/bookings/"+bookingID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = executeRequest(r, "GET", "/v1/bookings/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update status", func(t *testing.T) {
		r := setupRouter(&fakeService{}, true)
		w := executeRequest(r, "PATCH", "/v1/bookings/"+bookingID+"/status", UpdateStatusRequest{Status: "confirmed"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "confirmed", resp.Status)

		w = executeRequest(r, "PATCH", "/v1/bookings/"+bookingID+"/status", UpdateStatusRequest{Status: "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Export downloads a workbook", func(t *testing.T) {
		svc := &fakeService{}
		r := setupRouter(svc, true)

		w := executeRequest(r, "GET", "/v1/bookings/export?property_id="+propertyID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Equal(t, "PK", w.Body.String())
		assert.Equal(t, propertyID, svc.lastFilter.PropertyID)
	})
}
