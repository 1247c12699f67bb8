package subscribers

import (
	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	"github.com/maquinsa/site-core/internal/pkg/pagination"
	"github.com/maquinsa/site-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/admin/newsletter/subscribers", authMW, h.list)
}

func (h *Handler) list(c *gin.Context) {
	f, ok := store.ParseFilter(c.Query("status"))
	if !ok {
		response.BadRequest(c, "unknown status filter")
		return
	}

	q := pagination.FromContext(c)
	rows, total, err := h.svc.List(f, q.Offset(), q.Limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, q.Meta(total))
}
