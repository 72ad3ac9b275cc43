package common

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"svu_forum/internal/pkg/config"
	"svu_forum/internal/pkg/registry"
	"svu_forum/internal/pkg/uploader"
	"svu_forum/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAndServe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	old := config.GlobalConfig
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	t.Cleanup(func() { config.GlobalConfig = old })

	up, err := uploader.NewLocalUploader(t.TempDir(), "/uploads")
	require.NoError(t, err)

	r := gin.New()
	require.NoError(t, (&CommonModule{}).Init(&registry.ModuleContext{Router: r, Uploader: up}))

	token, _, err := utils.GenerateToken("alice")
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data []struct {
			Filename string `json:"filename"`
			URL      string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "b.txt", resp.Data[1].Filename)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.Data[1].URL, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "content of b.txt", w.Body.String())

	t.Run("Unknown file", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/nope.txt", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Upload requires login", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
