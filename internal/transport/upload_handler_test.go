package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, fieldName, fileName, contentType string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func (e *testEnv) doUpload(t *testing.T, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUploadHandler_StoresImageAndReturnsURL(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartImage(t, "image", "product photo.jpg", "image/jpeg", []byte("jpeg-bytes"))
	w := env.doUpload(t, token, body, contentType)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp UploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"), "url %q should live under /uploads/", resp.URL)
	assert.True(t, strings.HasSuffix(resp.URL, "-product_photo.jpg"), "url %q should carry the sanitized name", resp.URL)

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, err := os.ReadFile(env.uploadDir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), stored)
}

func TestUploadHandler_RejectsUnsupportedTypeWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartImage(t, "image", "script.svg", "image/svg+xml", []byte("<svg/>"))
	w := env.doUpload(t, token, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported image type", decodeMessage(t, w))

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be written for a rejected type")
}

func TestUploadHandler_MissingImageField(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartImage(t, "attachment", "photo.png", "image/png", []byte("png-bytes"))
	w := env.doUpload(t, token, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing image file", decodeMessage(t, w))
}

func TestUploadHandler_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartImage(t, "image", "photo.png", "image/png", []byte("png-bytes"))
	w := env.doUpload(t, env.userToken(t), body, contentType)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decodeMessage(t, w))

	body, contentType = multipartImage(t, "image", "photo.png", "image/png", []byte("png-bytes"))
	w = env.doUpload(t, "", body, contentType)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
