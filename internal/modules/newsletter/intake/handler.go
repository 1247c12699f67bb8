package intake

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/maquinsa/site-core/internal/config"
	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/locale"
	pkgmail "github.com/maquinsa/site-core/internal/pkg/mail"
	"github.com/maquinsa/site-core/internal/pkg/response"
)

type Handler struct {
	svc    *Service
	cfg    *config.AppConfig
	sender *pkgmail.Sender
}

func NewHandler(svc *Service, cfg *config.AppConfig, sender *pkgmail.Sender) *Handler {
	return &Handler{svc: svc, cfg: cfg, sender: sender}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/newsletter/subscribe", h.subscribe)
	rg.POST("/catalog/download", h.download)
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, "invalid subscribe request", fieldErrors(err))
		return
	}
	if dto.Language != "" && !locale.Supported(dto.Language) {
		response.UnprocessableEntity(c, "invalid subscribe request", map[string]string{"language": "unsupported"})
		return
	}

	res, err := h.svc.Intake(Request{
		Email:    dto.Email,
		Name:     dto.Name,
		Language: dto.Language,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	sub := res.Subscriber
	copy := locale.Get(sub.Language)

	if sub.Status() == models.StatusPending && sub.ConfirmationToken != nil {
		if err := h.sendConfirmEmail(sub, copy); err != nil {
			response.InternalError(c, err)
			return
		}
		response.Created(c, gin.H{"success": true, "message": copy.SubscribePendingMsg})
		return
	}
	response.OK(c, gin.H{"success": true, "message": copy.SubscribeActiveMsg})
}

func (h *Handler) download(c *gin.Context) {
	var dto DownloadDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, "invalid download request", fieldErrors(err))
		return
	}
	if dto.Language != "" && !locale.Supported(dto.Language) {
		response.UnprocessableEntity(c, "invalid download request", map[string]string{"language": "unsupported"})
		return
	}

	res, err := h.svc.Intake(Request{
		Email:     dto.Email,
		Name:      dto.Name,
		Company:   dto.Company,
		Language:  dto.Language,
		Source:    dto.Source,
		Subscribe: dto.SubscribeNewsletter,
		Download:  true,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	copy := locale.Get(res.Subscriber.Language)
	response.OK(c, gin.H{
		"success":     true,
		"message":     copy.DownloadReadyMsg,
		"downloadUrl": h.cfg.Catalog.DownloadURL,
	})
}

func (h *Handler) sendConfirmEmail(sub *models.SubscriberModel, copy locale.Copy) error {
	confirmURL, err := buildConfirmURL(h.cfg.ServerURL, *sub.ConfirmationToken)
	if err != nil {
		return err
	}
	return h.sender.SendConfirm(sub.Email, pkgmail.ConfirmData{
		Subject:    copy.ConfirmSubject,
		Intro:      copy.ConfirmIntro,
		Button:     copy.ConfirmButton,
		Ignore:     copy.ConfirmIgnore,
		ConfirmURL: confirmURL,
		SiteName:   h.cfg.SiteName,
	})
}

func buildConfirmURL(baseURL, token string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return "", fmt.Errorf("confirm url base is not configured")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid confirm base url")
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v2/newsletter/confirm"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// fieldErrors flattens binding failures into field → rule pairs.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return fields
}
