package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/documents"
	"resume-builder/internal/resume"
	"resume-builder/internal/shared/config"
)

func buildApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func serve(t *testing.T, app *App, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func editName(t *testing.T, app *App, headers map[string]string, name string) {
	t.Helper()
	resp := serve(t, app, http.MethodPost, "/api/v1/session", nil, headers)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = serve(t, app, http.MethodPut, "/api/v1/resume/personal-details", resume.PersonalDetails{Name: name, Email: "a@example.com"}, headers)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func storedName(t *testing.T, app *App, userID string) string {
	t.Helper()
	doc, err := app.DocumentsService.LoadResume(context.Background(), userID)
	require.NoError(t, err)
	return doc.PersonalDetails.Name
}

func TestBuildMemoryEndToEnd(t *testing.T) {
	app := buildApp(t, config.Config{Env: "dev", DocumentStore: config.StoreMemory})
	guest := map[string]string{"X-Guest-Id": "g1"}

	editName(t, app, guest, "Ada")
	assert.Equal(t, "Ada", storedName(t, app, "guest:g1"))

	resp := serve(t, app, http.MethodDelete, "/api/v1/session", nil, guest)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 0, app.Sessions.Len())
}

func TestBuildPostgresFallsBackInDev(t *testing.T) {
	app := buildApp(t, config.Config{Env: "dev", DocumentStore: config.StorePostgres})
	assert.Equal(t, config.StoreMemory, app.Config.DocumentStore)
	assert.IsType(t, &documents.MemoryRepo{}, app.DocumentsRepo)
}

func TestBuildPostgresRequiredInProduction(t *testing.T) {
	_, err := Build(config.Config{Env: "production", DocumentStore: config.StorePostgres})
	assert.Error(t, err)
}

func TestBuildRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	app := buildApp(t, config.Config{Env: "production", DocumentStore: config.StoreRedis, RedisAddr: srv.Addr(), RedisPrefix: "test"})
	require.IsType(t, &documents.RedisRepo{}, app.DocumentsRepo)

	editName(t, app, map[string]string{"X-Guest-Id": "g1"}, "Grace")
	assert.True(t, srv.Exists("test:guest:g1"))
	assert.Equal(t, "Grace", storedName(t, app, "guest:g1"))
}

func TestBuildLocalUsesFixedIdentity(t *testing.T) {
	dir := t.TempDir()
	app := buildApp(t, config.Config{Env: "dev", DocumentStore: config.StoreLocal, LocalStoreDir: dir})
	require.IsType(t, &documents.LocalRepo{}, app.DocumentsRepo)

	editName(t, app, nil, "Linus")
	assert.Equal(t, "Linus", storedName(t, app, "anyone"))

	resp := serve(t, app, http.MethodDelete, "/api/v1/session", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestBuildObjectLocal(t *testing.T) {
	app := buildApp(t, config.Config{Env: "dev", DocumentStore: config.StoreObject, ObjectStoreType: "local", LocalStoreDir: t.TempDir()})
	require.IsType(t, &documents.ObjectRepo{}, app.DocumentsRepo)

	editName(t, app, map[string]string{"X-Guest-Id": "g2"}, "Barbara")
	assert.Equal(t, "Barbara", storedName(t, app, "guest:g2"))
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	_, err := Build(config.Config{Env: "dev", DocumentStore: config.StoreMemory, LLMProvider: "mystery"})
	assert.Error(t, err)

	_, err = Build(config.Config{Env: "dev", DocumentStore: config.StoreMemory, LLMProvider: "openai"})
	assert.Error(t, err)
}
