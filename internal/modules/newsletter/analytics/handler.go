package analytics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/admin/newsletter/analytics", authMW, h.analytics)
}

func (h *Handler) analytics(c *gin.Context) {
	summary, err := h.svc.Compute(time.Now())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, summary)
}
