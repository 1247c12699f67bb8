package confirm

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/config"
	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/locale"
)

// Handler renders the terminal confirmation and unsubscribe pages. These
// are human-facing pages reached from email links, not JSON endpoints.
type Handler struct {
	svc *Service
	cfg *config.AppConfig
}

func NewHandler(svc *Service, cfg *config.AppConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/newsletter")
	g.GET("/confirm", h.confirm)
	g.GET("/unsubscribe", h.unsubscribe)
}

func (h *Handler) confirm(c *gin.Context) {
	tok := c.Query("token")

	outcome, sub, err := h.svc.Confirm(tok)
	copy := h.pageCopy(c, sub)
	if err != nil {
		h.render(c, http.StatusInternalServerError, copy, copy.InternalErrorTitle, copy.InternalErrorBody)
		return
	}

	switch outcome {
	case ConfirmedNow:
		h.render(c, http.StatusOK, copy, copy.ConfirmedTitle, copy.ConfirmedBody)
	case AlreadyConfirmed:
		h.render(c, http.StatusOK, copy, copy.AlreadyTitle, copy.AlreadyBody)
	case PreviouslyUnsubscribed:
		h.render(c, http.StatusGone, copy, copy.UnsubBlockedTitle, copy.UnsubBlockedBody)
	default:
		h.render(c, http.StatusNotFound, copy, copy.InvalidTokenTitle, copy.InvalidTokenBody)
	}
}

func (h *Handler) unsubscribe(c *gin.Context) {
	tok := c.Query("token")

	outcome, sub, err := h.svc.Unsubscribe(tok)
	copy := h.pageCopy(c, sub)
	if err != nil {
		h.render(c, http.StatusInternalServerError, copy, copy.InternalErrorTitle, copy.InternalErrorBody)
		return
	}

	switch outcome {
	case Unsubscribed:
		h.render(c, http.StatusOK, copy, copy.UnsubscribedTitle, copy.UnsubscribedBody)
	case AlreadyUnsubscribed:
		h.render(c, http.StatusOK, copy, copy.AlreadyUnsubTitle, copy.AlreadyUnsubBody)
	default:
		h.render(c, http.StatusNotFound, copy, copy.InvalidTokenTitle, copy.InvalidTokenBody)
	}
}

// pageCopy picks the subscriber's stored language when the token resolved,
// otherwise the lang query parameter (default es).
func (h *Handler) pageCopy(c *gin.Context, sub *models.SubscriberModel) locale.Copy {
	if sub != nil {
		return locale.Get(sub.Language)
	}
	return locale.Get(c.Query("lang"))
}

func (h *Handler) render(c *gin.Context, status int, copy locale.Copy, title, body string) {
	renderPage(c, status, pageData{
		Lang:      copy.Code,
		Title:     title,
		Body:      body,
		SiteURL:   h.cfg.SiteURL,
		SiteName:  h.cfg.SiteName,
		BackLabel: copy.BackToSite,
	})
}
