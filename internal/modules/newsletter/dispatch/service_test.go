package dispatch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/maquinsa/site-core/internal/config"
	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	pkgmail "github.com/maquinsa/site-core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	batches [][]pkgmail.Message
	fail    func(msgs []pkgmail.Message) error
}

func (f *fakeMailer) SendBatch(msgs []pkgmail.Message) error {
	if f.fail != nil {
		if err := f.fail(msgs); err != nil {
			return err
		}
	}
	f.batches = append(f.batches, msgs)
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		SiteName:  "Maquinsa",
		SiteURL:   "https://maquinsa.example",
		ServerURL: "https://api.maquinsa.example",
	}
}

func seedActive(t *testing.T, st *store.MemoryStore, email, lang, unsubTok string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, st.Create(&models.SubscriberModel{
		Email:            email,
		Language:         lang,
		IsActive:         true,
		ConfirmedAt:      &now,
		UnsubscribeToken: unsubTok,
	}))
}

func testContent() *ContentDTO {
	return &ContentDTO{
		ID:        "post-1",
		TitleES:   "Hola",
		TitleEN:   "Hello",
		ExcerptES: "Un *resumen* breve.",
		ExcerptEN: "A short *excerpt*.",
		Slug:      "hola-hello",
	}
}

func TestNotifyPartitionsByLanguage(t *testing.T) {
	st := store.NewMemory()
	seedActive(t, st, "es1@example.com", "es", "u1")
	seedActive(t, st, "es2@example.com", "es", "u2")
	seedActive(t, st, "en1@example.com", "en", "u3")

	// Pending subscribers never receive dispatches.
	require.NoError(t, st.Create(&models.SubscriberModel{
		Email: "pending@example.com", Language: "es", UnsubscribeToken: "u4",
	}))

	mailer := &fakeMailer{}
	svc := NewService(st, mailer, testConfig(), zap.NewNop())

	res, err := svc.Notify(testContent())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Sent)
	assert.Equal(t, map[string]int{"es": 2, "en": 1}, res.PerLanguage)
	assert.Empty(t, res.Errors)
	require.Len(t, mailer.batches, 2)

	// es cohort goes first, one message per recipient.
	esBatch := mailer.batches[0]
	require.Len(t, esBatch, 2)
	var es1 *pkgmail.Message
	for i := range esBatch {
		assert.Equal(t, "Nuevo artículo: Hola", esBatch[i].Subject)
		if esBatch[i].To[0] == "es1@example.com" {
			es1 = &esBatch[i]
		}
	}
	require.NotNil(t, es1)
	assert.Contains(t, string(es1.HTML), "https://maquinsa.example/es/blog/hola-hello")
	assert.Contains(t, string(es1.HTML), "https://api.maquinsa.example/api/v2/newsletter/unsubscribe?token=u1")
	assert.Contains(t, string(es1.HTML), "<em>resumen</em>")

	enBatch := mailer.batches[1]
	require.Len(t, enBatch, 1)
	assert.Equal(t, "New article: Hello", enBatch[0].Subject)
	assert.Equal(t, []string{"en1@example.com"}, enBatch[0].To)
}

func TestNotifyCohortFailureIsIsolated(t *testing.T) {
	st := store.NewMemory()
	seedActive(t, st, "es1@example.com", "es", "u1")
	seedActive(t, st, "es2@example.com", "es", "u2")
	seedActive(t, st, "es3@example.com", "es", "u3")
	seedActive(t, st, "en1@example.com", "en", "u4")
	seedActive(t, st, "en2@example.com", "en", "u5")

	mailer := &fakeMailer{fail: func(msgs []pkgmail.Message) error {
		if strings.HasPrefix(msgs[0].To[0], "en") {
			return errors.New("smtp refused")
		}
		return nil
	}}
	svc := NewService(st, mailer, testConfig(), zap.NewNop())

	res, err := svc.Notify(testContent())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Sent)
	assert.Equal(t, map[string]int{"es": 3, "en": 0}, res.PerLanguage)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "en")
	assert.Contains(t, res.Errors[0], "smtp refused")
}

func TestNotifyEmptyBaseIsNoOp(t *testing.T) {
	st := store.NewMemory()
	mailer := &fakeMailer{}
	svc := NewService(st, mailer, testConfig(), zap.NewNop())

	res, err := svc.Notify(testContent())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Empty(t, res.Errors)
	assert.Empty(t, mailer.batches)
}

func TestByLanguage(t *testing.T) {
	c := testContent()
	byLang := c.ByLanguage()
	assert.Equal(t, "Hola", byLang["es"].Title)
	assert.Equal(t, "Hello", byLang["en"].Title)
}
