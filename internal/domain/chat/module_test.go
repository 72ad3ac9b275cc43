package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"svu_forum/internal/pkg/config"
	"svu_forum/internal/pkg/registry"
	"svu_forum/pkg/metrics"
	"svu_forum/pkg/response"
	"svu_forum/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	err := (&ChatModule{}).Init(&registry.ModuleContext{
		Router:  r,
		Metrics: metrics.NewMetricsCollector(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	return r
}

func send(t *testing.T, r *gin.Engine, body, token string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestChatHTTP(t *testing.T) {
	old := config.GlobalConfig
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	t.Cleanup(func() { config.GlobalConfig = old })

	r := setupRouter(t)
	token, _, err := utils.GenerateToken("carol")
	require.NoError(t, err)

	w, _ := send(t, r, `{"username":"bob","message":"hi all"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = send(t, r, `{"message":"who am i"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// 登录用户以登录名为准
	w, _ = send(t, r, `{"username":"mallory","message":"signed"}`, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, resp := send(t, r, `{"username":"bob","message":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrChatEmpty, resp.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Data []struct {
			ID       uint64 `json:"id"`
			Username string `json:"username"`
			Message  string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Data, 3)
	assert.Equal(t, "bob", history.Data[0].Username)
	assert.Equal(t, "Anonymous", history.Data[1].Username)
	assert.Equal(t, "carol", history.Data[2].Username)
	assert.Equal(t, uint64(3), history.Data[2].ID)
}
