package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leca/fw-gallery/internal/config"
	"github.com/leca/fw-gallery/internal/database"
	"github.com/leca/fw-gallery/internal/model"
	"github.com/leca/fw-gallery/internal/password"
	"github.com/leca/fw-gallery/internal/router"
	"github.com/leca/fw-gallery/internal/storage"
)

const (
	testUser = "admin"
	testPass = "hunter2"
)

type testServer struct {
	ts         *httptest.Server
	staticRoot string
}

// setupTestServer starts a full server backed by a temp SQLite file
// and a temp static directory, with the admin credential seeded.
func setupTestServer(t *testing.T) *testServer {
	return setupTestServerMaxUpload(t, 32<<20)
}

func setupTestServerMaxUpload(t *testing.T, maxUploadBytes int64) *testServer {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hash, err := password.Hash(testPass)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, db.SetAccount(context.Background(), &model.Account{
		Username:     testUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	staticRoot := t.TempDir()
	cfg := &config.Config{
		StaticRoot:        staticRoot,
		ThumbnailMaxWidth: 600,
		MaxUploadBytes:    maxUploadBytes,
	}
	srv := router.New(db, storage.NewFileSystem(staticRoot), cfg)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return &testServer{ts: ts, staticRoot: staticRoot}
}

// makePNG creates a small PNG in memory.
func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(3 * x), G: uint8(5 * y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadBody builds a multipart body with one file field and the text
// fields.
func uploadBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// doAuth performs an authenticated request and decodes the envelope.
func doAuth(t *testing.T, method, url string, body io.Reader, contentType string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.SetBasicAuth(testUser, testPass)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) == 0 {
		return resp.StatusCode, nil
	}
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return resp.StatusCode, decoded
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func listImages(t *testing.T, ts *httptest.Server) map[string]any {
	t.Helper()
	resp, err := http.Get(ts.URL + "/images")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func TestUploadEditDeleteRoundTrip(t *testing.T) {
	env := setupTestServer(t)
	managerURL := env.ts.URL + "/manager/images"

	// Upload a valid small PNG.
	pngData := makePNG(t, 100, 50)
	body, contentType := uploadBody(t, "test.png", pngData, map[string]string{
		"title":    "Upload Test",
		"position": "SH",
		"time":     "2024",
	})
	status, envelope := doAuth(t, "POST", managerURL, body, contentType)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "", envelope["err_code"])
	id := int64(envelope["result"].(float64))
	assert.Positive(t, id)

	// Both files present on disk.
	assert.Equal(t, 2, countFiles(t, env.staticRoot))

	// Listing shows the asset with the original's dimensions.
	listing := listImages(t, env.ts)
	images := listing["images"].([]any)
	require.Len(t, images, 1)
	first := images[0].(map[string]any)
	assert.Equal(t, "Upload Test", first["title"])
	assert.EqualValues(t, 100, first["width"])
	assert.EqualValues(t, 50, first["height"])
	assert.NotEmpty(t, first["blurhash"])
	originalURI := first["uri"].(string)
	originalHash := first["blurhash"].(string)

	// The stored original is served over /static.
	resp, err := http.Get(env.ts.URL + "/" + originalURI)
	require.NoError(t, err)
	served, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decoded, _, err := image.Decode(bytes.NewReader(served))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())

	// Re-uploading the same title is rejected without new files.
	body, contentType = uploadBody(t, "test.png", pngData, map[string]string{"title": "Upload Test"})
	status, envelope = doAuth(t, "POST", managerURL, body, contentType)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "REPEAT_TITLE", envelope["err_code"])
	assert.Equal(t, 2, countFiles(t, env.staticRoot))

	// Edit the text fields.
	form := bytes.NewBufferString("title=Upload+Test+3&position=SH&time=2024&description=")
	status, envelope = doAuth(t, "PUT", fmt.Sprintf("%s/%d", managerURL, id), form, "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", envelope["err_code"])

	listing = listImages(t, env.ts)
	images = listing["images"].([]any)
	require.Len(t, images, 1)
	first = images[0].(map[string]any)
	assert.Equal(t, "Upload Test 3", first["title"])
	// Files, hash and dimensions unchanged by the edit.
	assert.Equal(t, originalURI, first["uri"])
	assert.Equal(t, originalHash, first["blurhash"])
	assert.EqualValues(t, 100, first["width"])

	// Delete removes the row and both files.
	status, envelope = doAuth(t, "DELETE", fmt.Sprintf("%s/%d", managerURL, id), nil, "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Nil(t, envelope)
	assert.Zero(t, countFiles(t, env.staticRoot))

	listing = listImages(t, env.ts)
	assert.EqualValues(t, 0, listing["total"])
}

func TestUpload_RequiresAuth(t *testing.T) {
	env := setupTestServer(t)

	body, contentType := uploadBody(t, "test.png", makePNG(t, 10, 10), map[string]string{"title": "Nope"})
	req, err := http.NewRequest("POST", env.ts.URL+"/manager/images", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, countFiles(t, env.staticRoot))
}

func TestUpload_InvalidImage(t *testing.T) {
	env := setupTestServer(t)

	body, contentType := uploadBody(t, "junk.png", []byte("not an image"), map[string]string{"title": "Junk"})
	status, envelope := doAuth(t, "POST", env.ts.URL+"/manager/images", body, contentType)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "INVALID_IMAGE", envelope["err_code"])
}

func TestUpload_MissingTitle(t *testing.T) {
	env := setupTestServer(t)

	body, contentType := uploadBody(t, "test.png", makePNG(t, 10, 10), nil)
	status, envelope := doAuth(t, "POST", env.ts.URL+"/manager/images", body, contentType)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", envelope["err_code"])
	// The message is stable client-facing text, not validation internals.
	assert.Equal(t, "Title is required and must be 100 characters or fewer.", envelope["msg"])
}

func TestUpload_BodyOverSizeCap(t *testing.T) {
	env := setupTestServerMaxUpload(t, 1024)

	pngData := makePNG(t, 200, 200)
	require.Greater(t, len(pngData), 1024)

	body, contentType := uploadBody(t, "big.png", pngData, map[string]string{"title": "Too Big"})
	status, envelope := doAuth(t, "POST", env.ts.URL+"/manager/images", body, contentType)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", envelope["err_code"])
	assert.Zero(t, countFiles(t, env.staticRoot))

	listing := listImages(t, env.ts)
	assert.EqualValues(t, 0, listing["total"])
}

func TestUpdate_MissingTarget(t *testing.T) {
	env := setupTestServer(t)

	form := bytes.NewBufferString("title=Whatever")
	status, envelope := doAuth(t, "PUT", env.ts.URL+"/manager/images/9999", form, "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "INVALID_IMAGE", envelope["err_code"])
}

func TestDelete_MissingTarget(t *testing.T) {
	env := setupTestServer(t)

	status, envelope := doAuth(t, "DELETE", env.ts.URL+"/manager/images/9999", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "INVALID_IMAGE", envelope["err_code"])
}

func TestManagerListing_KeywordSearch(t *testing.T) {
	env := setupTestServer(t)
	managerURL := env.ts.URL + "/manager/images"

	for i, title := range []string{"Harbor Night", "Mountain Dawn"} {
		body, contentType := uploadBody(t, fmt.Sprintf("p%d.png", i), makePNG(t, 20, 20), map[string]string{
			"title":       title,
			"description": fmt.Sprintf("scene %d", i),
		})
		status, envelope := doAuth(t, "POST", managerURL, body, contentType)
		require.Equal(t, http.StatusCreated, status)
		require.Equal(t, "", envelope["err_code"])
	}

	status, envelope := doAuth(t, "GET", managerURL+"?keyword=Harbor", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "", envelope["err_code"])
	result := envelope["result"].(map[string]any)
	assert.EqualValues(t, 1, result["total"])
	images := result["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, "Harbor Night", images[0].(map[string]any)["title"])
}

func TestPublicListing_Pagination(t *testing.T) {
	env := setupTestServer(t)
	managerURL := env.ts.URL + "/manager/images"

	for i := 0; i < 3; i++ {
		body, contentType := uploadBody(t, fmt.Sprintf("p%d.png", i), makePNG(t, 15, 15), map[string]string{
			"title": fmt.Sprintf("Photo %d", i),
		})
		status, _ := doAuth(t, "POST", managerURL, body, contentType)
		require.Equal(t, http.StatusCreated, status)
	}

	resp, err := http.Get(env.ts.URL + "/images?page=1&page_size=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	var listing map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))

	assert.EqualValues(t, 3, listing["total"])
	assert.EqualValues(t, 2, listing["pages"])
	assert.Len(t, listing["images"].([]any), 2)
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "NOT_FOUND", envelope["err_code"])
}
