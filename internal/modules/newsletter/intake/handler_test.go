package intake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/config"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	pkgmail "github.com/maquinsa/site-core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	cfg := &config.AppConfig{
		SiteName:  "Maquinsa",
		SiteURL:   "https://maquinsa.example",
		ServerURL: "https://api.maquinsa.example",
		Catalog:   config.CatalogConfig{DownloadURL: "https://cdn.example/catalog.pdf"},
	}
	sender := pkgmail.New(pkgmail.Config{Enable: false})

	r := gin.New()
	api := r.Group("/api/v2")
	NewHandler(NewService(st), cfg, sender).RegisterRoutes(api)
	return r, st
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestSubscribeEndpoint(t *testing.T) {
	r, st := newTestRouter(t)

	w, body := postJSON(t, r, "/api/v2/newsletter/subscribe",
		`{"email":"ana@example.com","name":"Ana","language":"es"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])

	sub, err := st.GetByEmail("ana@example.com")
	require.NoError(t, err)
	assert.NotNil(t, sub.ConfirmationToken)
}

func TestSubscribeValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := postJSON(t, r, "/api/v2/newsletter/subscribe", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "email")

	w, body = postJSON(t, r, "/api/v2/newsletter/subscribe",
		`{"email":"ana@example.com","language":"fr"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields, ok = body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "language")
}

func TestDownloadEndpoint(t *testing.T) {
	r, st := newTestRouter(t)

	w, body := postJSON(t, r, "/api/v2/catalog/download",
		`{"email":"buyer@example.com","company":"Acme","subscribeNewsletter":true,"language":"en"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://cdn.example/catalog.pdf", body["downloadUrl"])

	sub, err := st.GetByEmail("buyer@example.com")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	assert.NotNil(t, sub.CatalogDownloadedAt)
	assert.Equal(t, DefaultSource, sub.DownloadSource)
}

func TestSubscribeExistingActive(t *testing.T) {
	r, _ := newTestRouter(t)

	_, _ = postJSON(t, r, "/api/v2/catalog/download",
		`{"email":"ana@example.com","subscribeNewsletter":true}`)

	// A second signup for an already-active address returns 200, not 201.
	w, body := postJSON(t, r, "/api/v2/newsletter/subscribe", `{"email":"ana@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestBuildConfirmURL(t *testing.T) {
	u, err := buildConfirmURL("https://api.maquinsa.example", "tok123")
	require.NoError(t, err)
	assert.Equal(t, "https://api.maquinsa.example/api/v2/newsletter/confirm?token=tok123", u)

	_, err = buildConfirmURL("", "tok")
	assert.Error(t, err)

	_, err = buildConfirmURL("not a url", "tok")
	assert.Error(t, err)
}
