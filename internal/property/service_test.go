package property

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ketensuites/keten-backend/internal/media"
)

type fakeRepo struct {
	props     map[string]*Property
	images    []Image
	amenities map[string][]string
	known     map[string]Amenity
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		props:     map[string]*Property{},
		amenities: map[string][]string{},
		known: map[string]Amenity{
			"wifi": {ID: "wifi", Name: "Wi-Fi", Category: "connectivity"},
			"pool": {ID: "pool", Name: "Pool", Category: "leisure"},
		},
	}
}

func (f *fakeRepo) Create(_ context.Context, p *Property) error {
	for _, existing := range f.props {
		if existing.Slug == p.Slug {
			return ErrSlugTaken
		}
	}
	p.ID = "p" + string(rune('0'+len(f.props)+1))
	cp := *p
	f.props[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Property, error) {
	p, ok := f.props[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*Property, error) {
	for _, p := range f.props {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(context.Context, Filter) ([]*Property, int, error) {
	var out []*Property
	for _, p := range f.props {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, p *Property) error {
	if _, ok := f.props[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	f.props[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.props[id]; !ok {
		return ErrNotFound
	}
	delete(f.props, id)
	return nil
}

func (f *fakeRepo) ListImages(_ context.Context, propertyID string) ([]Image, error) {
	var out []Image
	for _, img := range f.images {
		if img.PropertyID == propertyID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddImage(_ context.Context, img *Image) error {
	img.ID = "img" + string(rune('0'+len(f.images)+1))
	f.images = append(f.images, *img)
	return nil
}

func (f *fakeRepo) DeleteImage(_ context.Context, propertyID, imageID string) (*Image, error) {
	for i, img := range f.images {
		if img.ID == imageID && img.PropertyID == propertyID {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return &img, nil
		}
	}
	return nil, ErrImageNotFound
}

func (f *fakeRepo) ListAmenities(_ context.Context, propertyID string) ([]Amenity, error) {
	var out []Amenity
	for _, id := range f.amenities[propertyID] {
		out = append(out, f.known[id])
	}
	return out, nil
}

func (f *fakeRepo) SetAmenities(_ context.Context, propertyID string, amenityIDs []string) error {
	for _, id := range amenityIDs {
		if _, ok := f.known[id]; !ok {
			return ErrUnknownAmenity
		}
	}
	f.amenities[propertyID] = amenityIDs
	return nil
}

// fakeMedia records deletions only.
type fakeMedia struct {
	media.Service
	deleted   []string
	deleteErr error
}

func (f *fakeMedia) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestService() (Service, *fakeRepo, *fakeMedia) {
	repo, m := newFakeRepo(), &fakeMedia{}
	return NewService(repo, m, nil), repo, m
}

func createKeten(t *testing.T, svc Service) *Property {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateRequest{
		Name:    "Keten Suites Şişli",
		Address: "Halaskargazi Cd. 1",
		City:    "İstanbul",
	})
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService()

	p := createKeten(t, svc)
	assert.Equal(t, "keten-suites-sisli", p.Slug)
	assert.Equal(t, "Turkey", p.Country)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "Keten Suites Şişli", Address: "x", City: "y"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{name: "Empty name", req: CreateRequest{Name: " ", Address: "a", City: "c"}, wantErr: ErrEmptyName},
		{name: "Missing city", req: CreateRequest{Name: "n", Address: "a"}, wantErr: ErrEmptyAddress},
		{name: "Bad slug", req: CreateRequest{Name: "n", Slug: "Bad Slug", Address: "a", City: "c"}, wantErr: ErrInvalidSlug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetBySlugIncludesGalleryAndAmenities(t *testing.T) {
	svc, _, _ := newTestService()
	p := createKeten(t, svc)

	_, err := svc.AddImage(context.Background(), p.ID, &media.Media{ID: "m1"}, AddImageRequest{AltText: "Lobby"})
	require.NoError(t, err)
	_, err = svc.SetAmenities(context.Background(), p.ID, []string{"wifi", "pool", "wifi"})
	require.NoError(t, err)

	d, err := svc.GetBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	require.Len(t, d.Images, 1)
	assert.Equal(t, ImageGallery, d.Images[0].ImageType)
	assert.Equal(t, media.URL("m1"), d.Images[0].URL)
	assert.Empty(t, d.Images[0].ThumbnailURL)
	assert.Len(t, d.Amenities, 2)

	_, err = svc.GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService()
	p := createKeten(t, svc)

	name := "Keten Suites Nişantaşı"
	empty := ""
	updated, err := svc.Update(context.Background(), p.ID, UpdateRequest{Name: &name, Slug: &empty})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "keten-suites-nisantasi", updated.Slug)

	blank := "  "
	_, err = svc.Update(context.Background(), p.ID, UpdateRequest{Address: &blank})
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestImages(t *testing.T) {
	svc, _, m := newTestService()
	p := createKeten(t, svc)

	thumb := "media/ab/m1_thumb.jpg"
	img, err := svc.AddImage(context.Background(), p.ID, &media.Media{ID: "m1", ThumbnailPath: &thumb}, AddImageRequest{ImageType: ImageExterior})
	require.NoError(t, err)
	assert.Equal(t, media.ThumbnailURL("m1"), img.ThumbnailURL)

	_, err = svc.AddImage(context.Background(), p.ID, &media.Media{ID: "m2"}, AddImageRequest{ImageType: "selfie"})
	assert.ErrorIs(t, err, ErrInvalidImageType)

	_, err = svc.AddImage(context.Background(), "missing", &media.Media{ID: "m3"}, AddImageRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.RemoveImage(context.Background(), p.ID, img.ID))
	assert.Equal(t, []string{"m1"}, m.deleted)

	err = svc.RemoveImage(context.Background(), p.ID, img.ID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestDeleteRemovesMedia(t *testing.T) {
	svc, _, m := newTestService()
	p := createKeten(t, svc)

	_, err := svc.AddImage(context.Background(), p.ID, &media.Media{ID: "m1"}, AddImageRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.Equal(t, []string{"m1"}, m.deleted)

	_, err = svc.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLogsMediaFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo, m := newFakeRepo(), &fakeMedia{deleteErr: errors.New("disk gone")}
	svc := NewService(repo, m, zap.New(core))
	p := createKeten(t, svc)

	_, err := svc.AddImage(context.Background(), p.ID, &media.Media{ID: "m1"}, AddImageRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	entries := logs.FilterMessage("property media not removed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "m1", entries[0].ContextMap()["media_id"])
	assert.Equal(t, "disk gone", entries[0].ContextMap()["error"])
}

func TestSetAmenitiesUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	p := createKeten(t, svc)

	_, err := svc.SetAmenities(context.Background(), p.ID, []string{"spa"})
	assert.ErrorIs(t, err, ErrUnknownAmenity)
}
