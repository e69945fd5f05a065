package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/http/controller"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
	"github.com/tnqbao/gau-video-service/service"
	"github.com/tnqbao/gau-video-service/utils"
)

type brokenVideoRepo struct{}

func (brokenVideoRepo) Create(context.Context, *entity.VideoRecord) error {
	return errors.New("connection reset")
}

func (brokenVideoRepo) GetByID(context.Context, string) (*entity.VideoRecord, error) {
	return nil, errors.New("connection reset")
}

func (brokenVideoRepo) List(context.Context) ([]entity.VideoRecord, error) {
	return nil, errors.New("connection reset")
}

func (brokenVideoRepo) Count(context.Context) (int64, error) {
	return 0, errors.New("connection reset")
}

func testEnv() *config.EnvConfig {
	env := &config.EnvConfig{}
	env.ImageKit.PrivateKey = "private_test"
	env.ImageKit.PublicKey = "public_test"
	env.ImageKit.UploadTokenTTL = 1800
	env.JWT.SecretKey = "secret"
	env.JWT.Expire = 3600
	env.Grafana.ServiceName = "gau-video-service-test"
	return env
}

func newTestRouter(t *testing.T, env *config.EnvConfig, repo *repository.Repository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{EnvConfig: env}
	testInfra := &infra.Infra{
		Logger: infra.NewLoggerClient(io.Discard, env.Grafana.ServiceName),
		Cache:  infra.NewMemoryCache(),
	}

	svc, err := service.InitService(cfg, testInfra, repo)
	require.NoError(t, err)

	return SetupRouter(controller.NewController(cfg, testInfra, repo, svc))
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

type videoBody struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	VideoURL       string                `json:"videoUrl"`
	ThumbnailURL   string                `json:"thumbnailUrl"`
	Transformation entity.Transformation `json:"transformation"`
	CreatedAt      string                `json:"createdAt"`
}

func TestEndToEndScenario(t *testing.T) {
	r := newTestRouter(t, testEnv(), repository.NewMemoryRepository())

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"email": "a@b.com", "password": "x"})
	require.Equal(t, http.StatusCreated, w.Code)
	var msg map[string]string
	decode(t, w, &msg)
	assert.Equal(t, "User registered successfully", msg["message"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"email": "a@b.com", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, "User already registered", msg["error"])

	w = doJSON(t, r, http.MethodPost, "/video", gin.H{
		"title":        "t",
		"description":  "d",
		"videoUrl":     "https://ik.imagekit.io/demo/v.mp4",
		"thumbnailUrl": "https://ik.imagekit.io/demo/t.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created videoBody
	decode(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, entity.Transformation{Width: 1080, Height: 1920, Quality: 100}, created.Transformation)

	w = doJSON(t, r, http.MethodGet, "/video/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched videoBody
	decode(t, w, &fetched)
	assert.Equal(t, created, fetched)

	w = doJSON(t, r, http.MethodGet, "/video/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, "Video not found", msg["error"])

	w = doJSON(t, r, http.MethodGet, "/api/video", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []videoBody
	decode(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestRegister_MissingFields(t *testing.T) {
	r := newTestRouter(t, testEnv(), repository.NewMemoryRepository())

	for _, body := range []gin.H{{"email": "a@b.com"}, {"password": "x"}, {}} {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		var msg map[string]string
		decode(t, w, &msg)
		assert.Equal(t, "Email and password are required", msg["error"])
	}
}

func TestRegisterAndLogin_PasswordTooLong(t *testing.T) {
	r := newTestRouter(t, testEnv(), repository.NewMemoryRepository())
	long := strings.Repeat("p", 73)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"email": "long@b.com", "password": long})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var msg map[string]string
	decode(t, w, &msg)
	assert.Equal(t, "Password must be at most 72 bytes", msg["error"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "long@b.com", "password": long})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"email": "max@b.com", "password": strings.Repeat("p", 72)})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateVideo_ValidationReason(t *testing.T) {
	r := newTestRouter(t, testEnv(), repository.NewMemoryRepository())

	w := doJSON(t, r, http.MethodPost, "/video", gin.H{"title": "t", "description": "d", "videoUrl": "https://cdn/v.mp4"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var msg map[string]string
	decode(t, w, &msg)
	assert.Contains(t, msg["error"], "thumbnailUrl")

	w = doJSON(t, r, http.MethodGet, "/video", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestVideoRoutes_StoreFailure(t *testing.T) {
	repo := &repository.Repository{
		AccountRepo: repository.NewMemoryAccountRepository(),
		VideoRepo:   brokenVideoRepo{},
	}
	r := newTestRouter(t, testEnv(), repo)

	var msg map[string]string

	w := doJSON(t, r, http.MethodGet, "/video/abc", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, "Failed to fetch video", msg["error"])

	w = doJSON(t, r, http.MethodGet, "/video", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(t, r, http.MethodPost, "/video", gin.H{
		"title": "t", "description": "d",
		"videoUrl": "https://cdn/v.mp4", "thumbnailUrl": "https://cdn/t.jpg",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadAuth(t *testing.T) {
	r := newTestRouter(t, testEnv(), repository.NewMemoryRepository())

	var first, second entity.UploadAuthorization
	w := doJSON(t, r, http.MethodGet, "/api/auth/upload-auth", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &first)

	w = doJSON(t, r, http.MethodGet, "/api/auth/upload-auth", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &second)

	assert.Equal(t, "public_test", first.PublicKey)
	assert.NotEqual(t, first.Token, second.Token)
	assert.True(t, utils.VerifyUploadSignature("private_test", first.Token, first.Expire, first.Signature))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestUploadRoutes_RequireSessionWhenConfigured(t *testing.T) {
	env := testEnv()
	env.Upload.AuthRequired = true
	r := newTestRouter(t, env, repository.NewMemoryRepository())

	w := doJSON(t, r, http.MethodGet, "/api/auth/upload-auth", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/video", gin.H{"title": "t"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{"email": "a@b.com", "password": "x"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.com", "password": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.AccessToken)

	bearer := "Bearer " + login.AccessToken

	w = doJSON(t, r, http.MethodGet, "/api/auth/upload-auth", nil, "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]string
	decode(t, w, &me)
	assert.Equal(t, "a@b.com", me["email"])

	w = doJSON(t, r, http.MethodGet, "/video", nil)
	assert.Equal(t, http.StatusOK, w.Code, "reads stay public")
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, testEnv(), repository.NewMemoryRepository())

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
