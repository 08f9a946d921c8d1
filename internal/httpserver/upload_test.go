package httpserver

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/qr_menu/internal/qr"
)

const testUploadMaxBytes = 100 << 10

func (env *testEnv) upload(field, name string, data []byte, auth bool) *http.Response {
	env.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(env.t, err)
		_, err = fw.Write(data)
		require.NoError(env.t, err)
	}
	require.NoError(env.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/upload", &body)
	require.NoError(env.t, err)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	if auth {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+env.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(env.t, err)
	env.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)

	png, err := qr.PNG("https://menu.example.com/table/1", 256)
	require.NoError(t, err)

	resp := env.upload("file", "dish.png", png, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.login()

	resp = env.upload("file", "dish.png", png, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[map[string]string](t, resp)
	assert.True(t, strings.HasSuffix(out["public_id"], ".png"))
	assert.Equal(t, "/uploads/"+out["public_id"], out["url"])

	got, err := http.Get(env.srv.URL + out["url"])
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, http.StatusOK, got.StatusCode)
	served, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, png, served)

	jpeg := append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), make([]byte, 64)...)
	resp = env.upload("file", "dish.jpeg", jpeg, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decode[map[string]string](t, resp)
	assert.True(t, strings.HasSuffix(out["public_id"], ".jpg"))
}

func TestUploadImage_Rejects(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	resp := env.upload("", "", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.upload("image", "dish.png", []byte("\x89PNG\r\n\x1a\n"), true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "wrong form field")

	resp = env.upload("file", "dish.png", []byte("<svg xmlns='http://www.w3.org/2000/svg'/>"), true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "extension alone is not trusted")

	resp = env.upload("file", "dish.gif", []byte("GIF89a\x01\x00\x01\x00"), true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	big := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 3*testUploadMaxBytes)...)
	resp = env.upload("file", "huge.png", big, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	justOver := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, testUploadMaxBytes)...)
	resp = env.upload("file", "over.png", justOver, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
