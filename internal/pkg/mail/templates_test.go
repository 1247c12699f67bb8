package mail

import (
	"fmt"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfirm(t *testing.T) {
	html, err := RenderConfirm(ConfirmData{
		Subject:    "Confirma tu suscripción",
		Intro:      "Haz clic abajo:",
		Button:     "Confirmar",
		Ignore:     "Si no fuiste tú, ignora este correo.",
		ConfirmURL: "https://api.example.com/api/v2/newsletter/confirm?token=abc",
		SiteName:   "Maquinsa",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Confirma tu suscripción")
	assert.Contains(t, html, `href="https://api.example.com/api/v2/newsletter/confirm?token=abc"`)
	assert.Contains(t, html, fmt.Sprintf("©%d Maquinsa", time.Now().Year()))
}

func TestRenderNewsletter(t *testing.T) {
	html, err := RenderNewsletter(NewsletterData{
		Title:            "Hola <mundo>",
		Excerpt:          template.HTML("<p>Un <em>resumen</em></p>"),
		Category:         "Noticias",
		ImageURL:         "https://cdn.example/cover.jpg",
		ReadingTime:      "5 min de lectura",
		ReadMore:         "Leer artículo completo",
		DetailURL:        "https://maquinsa.example/es/blog/hola",
		UnsubscribeURL:   "https://api.example.com/api/v2/newsletter/unsubscribe?token=u1",
		UnsubscribeLabel: "Cancelar suscripción",
		SiteName:         "Maquinsa",
	})
	require.NoError(t, err)

	// The title is escaped, the pre-rendered excerpt is not.
	assert.Contains(t, html, "Hola &lt;mundo&gt;")
	assert.Contains(t, html, "<p>Un <em>resumen</em></p>")
	assert.Contains(t, html, "cover.jpg")
	assert.Contains(t, html, "unsubscribe?token=u1")
}

func TestRenderNewsletterOmitsOptionalBlocks(t *testing.T) {
	html, err := RenderNewsletter(NewsletterData{
		Title:    "Hola",
		SiteName: "Maquinsa",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "text-transform:uppercase")
}
