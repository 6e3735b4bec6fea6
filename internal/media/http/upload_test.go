package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ketensuites/keten-backend/internal/media"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
)

type fakeService struct {
	media.Service
	deleteErr error
	deleted   []string
}

func (f *fakeService) Upload(context.Context, media.UploadInput) (*media.Media, error) {
	return &media.Media{ID: "m1", ContentType: "image/jpeg"}, nil
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

var errOwnerGone = apperror.New(http.StatusNotFound, "property not found")

func setupUploadRouter(h *Handler, hook func(context.Context, *media.Media) (any, error)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", func(c *gin.Context) {
		h.HandleUpload(c, UploadConfig{AfterUpload: hook})
	})
	return r
}

func executeUpload(r http.Handler) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "room.jpg")
	_, _ = fw.Write([]byte("jpeg bytes"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleUpload(t *testing.T) {
	failingHook := func(context.Context, *media.Media) (any, error) { return nil, errOwnerGone }

	t.Run("No hook answers with the upload", func(t *testing.T) {
		svc := &fakeService{}
		w := executeUpload(setupUploadRouter(NewHandler(svc, nil), nil))
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), media.URL("m1"))
	})

	t.Run("Failed hook rolls the upload back", func(t *testing.T) {
		svc := &fakeService{}
		w := executeUpload(setupUploadRouter(NewHandler(svc, nil), failingHook))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"m1"}, svc.deleted)
	})

	t.Run("Rollback failure is logged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		svc := &fakeService{deleteErr: errors.New("disk gone")}
		w := executeUpload(setupUploadRouter(NewHandler(svc, zap.New(core)), failingHook))

		assert.Equal(t, http.StatusNotFound, w.Code)
		entries := logs.FilterMessage("orphaned upload not removed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "m1", entries[0].ContextMap()["media_id"])
	})
}
