package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/app/repository"
	"github.com/galeria-app/galeria/internal/pkg/gallery"
	"github.com/galeria-app/galeria/internal/pkg/imageops"
	"github.com/galeria-app/galeria/internal/pkg/middleware"
	"github.com/galeria-app/galeria/internal/pkg/picture"
	"github.com/galeria-app/galeria/internal/pkg/storage"
	"github.com/galeria-app/galeria/internal/pkg/thumbnail"
)

type stubDispatcher struct {
	ids []uint
}

func (d *stubDispatcher) EnqueueProcessPicture(id uint) error {
	d.ids = append(d.ids, id)
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *repository.Repositories, *stubDispatcher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Gallery{}, &models.Thumbnail{}, &models.Picture{}))

	repos := repository.NewRepositories(db)
	paths := storage.NewPaths(t.TempDir())
	codec := imageops.NewCodec()
	dispatch := &stubDispatcher{}

	Setup(&Services{
		Repos:      repos,
		Pictures:   picture.NewService(repos, paths, dispatch),
		Galleries:  gallery.NewService(repos.Gallery, "http://localhost:4000"),
		Thumbnails: thumbnail.NewService(repos.Gallery, paths, codec),
		Paths:      paths,
	})

	app := fiber.New()
	app.Use(middleware.UserContext())

	app.Get("/api/galleries", HandleGalleries)
	app.Get("/api/galleries/:id", HandleGallery)
	app.Get("/api/galleries/:id/pictures", HandleGalleryPictures)

	admin := app.Group("/admin/api", middleware.RequireAdmin())
	admin.Post("/pictures", HandleUploadPicture)
	admin.Get("/pictures/:id/status", HandlePictureStatus)
	admin.Delete("/pictures/:id", HandleDeletePicture)
	admin.Get("/galleries", HandleAdminGalleries)
	admin.Post("/galleries", HandleAdminCreateGallery)
	admin.Post("/galleries/:id/reset-token", HandleAdminResetGalleryToken)

	return app, repos, dispatch
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set("X-Auth-User-Id", "1")
	req.Header.Set("X-Auth-User", "admin")
	req.Header.Set("X-Auth-Admin", "true")
	return req
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.Set(3, 3, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestUploadPicture_CreatedAndEnqueued(t *testing.T) {
	app, repos, dispatch := newTestApp(t)

	body, contentType := multipartUpload(t, "file", "Plage.jpg", testJPEG(t))
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/admin/api/pictures", body))
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	got := decodeJSON(t, resp)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "processing", got["status"])
	assert.Equal(t, "Plage.jpg", got["original_name"])

	id := uint(got["id"].(float64))
	assert.Equal(t, []uint{id}, dispatch.ids)

	pic, err := repos.Picture.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.PictureStatusProcessing, pic.Status)
}

func TestUploadPicture_RejectsUnsupportedType(t *testing.T) {
	app, _, dispatch := newTestApp(t)

	body, contentType := multipartUpload(t, "file", "anim.gif", []byte("GIF89a............................"))
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/admin/api/pictures", body))
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, dispatch.ids)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/api/galleries", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func seedGalleryWithPictures(t *testing.T, repos *repository.Repositories, visibility bool, count int) *models.Gallery {
	t.Helper()
	g := &models.Gallery{Title: "Vacances", Visibility: visibility}
	require.NoError(t, repos.Gallery.Create(g))

	for i := 0; i < count; i++ {
		lightbox := fmt.Sprintf("/uploads/pictures/2025/08/31/p%d.jpg", i)
		thumb := fmt.Sprintf("/uploads/pictures/2025/08/31/p%d-thumb.jpg", i)
		p := &models.Picture{
			Filename:      fmt.Sprintf("p%d.jpg", i),
			OriginalName:  fmt.Sprintf("p%d.jpg", i),
			Type:          "jpg",
			Status:        models.PictureStatusAttached,
			Position:      i,
			GalleryID:     &g.ID,
			LightboxPath:  &lightbox,
			ThumbnailPath: &thumb,
		}
		require.NoError(t, repos.Picture.Create(p))
	}
	return g
}

func TestGalleryPictures_PaginationInCuratedOrder(t *testing.T) {
	app, repos, _ := newTestApp(t)
	g := seedGalleryWithPictures(t, repos, true, 20)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/galleries/%d/pictures", g.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	page1 := decodeJSON(t, resp)
	pictures := page1["pictures"].([]interface{})
	require.Len(t, pictures, PicturesPerPage)
	assert.Equal(t, true, page1["has_more"])
	assert.Equal(t, float64(15), page1["next_offset"])

	first := pictures[0].(map[string]interface{})
	assert.Equal(t, "/uploads/pictures/2025/08/31/p0.jpg", first["lightbox_path"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/galleries/%d/pictures?offset=15", g.ID), nil))
	require.NoError(t, err)
	page2 := decodeJSON(t, resp)
	require.Len(t, page2["pictures"].([]interface{}), 5)
	assert.Equal(t, false, page2["has_more"])
}

func TestGalleryPictures_PrivateGalleryTokenGate(t *testing.T) {
	app, repos, _ := newTestApp(t)
	g := seedGalleryWithPictures(t, repos, false, 1)

	stored, err := repos.Gallery.GetByID(g.ID)
	require.NoError(t, err)

	// no token
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/galleries/%d/pictures", g.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// wrong token
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/galleries/%d/pictures?token=faux", g.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// correct token
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/galleries/%d/pictures?token=%s", g.ID, stored.Token), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPublicGalleryList_HidesPrivateGalleries(t *testing.T) {
	app, repos, _ := newTestApp(t)
	seedGalleryWithPictures(t, repos, true, 0)
	seedGalleryWithPictures(t, repos, false, 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/galleries", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Len(t, body["galleries"].([]interface{}), 1)
}

func TestResetGalleryToken_ReturnsFreshShareURL(t *testing.T) {
	app, repos, _ := newTestApp(t)
	g := seedGalleryWithPictures(t, repos, false, 0)
	oldToken := g.Token

	req := asAdmin(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/api/galleries/%d/reset-token", g.ID), nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, true, body["success"])
	url := body["url"].(string)
	assert.Contains(t, url, fmt.Sprintf("/gallery/%d?token=", g.ID))
	assert.NotContains(t, url, oldToken)

	stored, err := repos.Gallery.GetByID(g.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, stored.Token)
}

func TestCreateGallery_AttachesSubmittedPictures(t *testing.T) {
	app, repos, _ := newTestApp(t)

	ready1 := &models.Picture{Filename: "a.jpg", Type: "jpg", Status: models.PictureStatusReady}
	require.NoError(t, repos.Picture.Create(ready1))
	ready2 := &models.Picture{Filename: "b.jpg", Type: "jpg", Status: models.PictureStatusReady}
	require.NoError(t, repos.Picture.Create(ready2))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Mariage"))
	require.NoError(t, writer.WriteField("visibility", "true"))
	require.NoError(t, writer.WriteField("picture_ids", fmt.Sprintf("%d,%d", ready2.ID, ready1.ID)))
	require.NoError(t, writer.Close())

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/admin/api/galleries", &buf))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeJSON(t, resp)
	id := uint(body["id"].(float64))

	attached, err := repos.Picture.FindByGalleryOrdered(id)
	require.NoError(t, err)
	require.Len(t, attached, 2)
	assert.Equal(t, ready2.ID, attached[0].ID)
	assert.Equal(t, ready1.ID, attached[1].ID)
	assert.Equal(t, models.PictureStatusAttached, attached[0].Status)
}

func TestCreateGallery_TitleRequired(t *testing.T) {
	app, _, _ := newTestApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("description", "sans titre"))
	require.NoError(t, writer.Close())

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/admin/api/galleries", &buf))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
