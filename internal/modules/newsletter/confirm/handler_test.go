package confirm

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/config"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, st *store.MemoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		SiteName: "Maquinsa",
		SiteURL:  "https://maquinsa.example",
	}
	r := gin.New()
	api := r.Group("/api/v2")
	NewHandler(NewService(st), cfg).RegisterRoutes(api)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmPageFlow(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st)
	seedPending(t, st, "ana@example.com", "tok", "u1")

	w := get(r, "/api/v2/newsletter/confirm?token=tok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Suscripción confirmada")
	assert.Contains(t, w.Body.String(), "https://maquinsa.example")

	// A consumed token renders the invalid-link page.
	w = get(r, "/api/v2/newsletter/confirm?token=tok")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmPageUnknownTokenUsesLangParam(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st)

	w := get(r, "/api/v2/newsletter/confirm?token=nope&lang=en")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid link")

	w = get(r, "/api/v2/newsletter/confirm?token=nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Enlace no válido")
}

func TestConfirmPageGoneAfterUnsubscribe(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st)
	seedPending(t, st, "ana@example.com", "tok", "u1")

	ok, err := st.Unsubscribe("u1", time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	w := get(r, "/api/v2/newsletter/confirm?token=tok")
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestUnsubscribePageFlow(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st)
	seedPending(t, st, "ana@example.com", "tok", "u1")

	w := get(r, "/api/v2/newsletter/unsubscribe?token=u1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Suscripción cancelada")

	// Clicking the link again stays a 200.
	w = get(r, "/api/v2/newsletter/unsubscribe?token=u1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ya cancelada")

	w = get(r, "/api/v2/newsletter/unsubscribe?token=nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
