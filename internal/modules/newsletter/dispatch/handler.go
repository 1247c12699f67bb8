package dispatch

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/pkg/dispatchlog"
	"github.com/maquinsa/site-core/internal/pkg/pagination"
	"github.com/maquinsa/site-core/internal/pkg/response"
	"go.uber.org/zap"
)

// RunLog records dispatch runs and answers duplicate triggers.
// *dispatchlog.Service is the production implementation.
type RunLog interface {
	FindRecent(ctx context.Context, contentID string) (*dispatchlog.Entry, error)
	Record(ctx context.Context, entry *dispatchlog.Entry) (*dispatchlog.Entry, error)
	List(ctx context.Context, page, size int) ([]*dispatchlog.Entry, int64, error)
}

type Handler struct {
	svc    *Service
	log    RunLog
	logger *zap.Logger
}

func NewHandler(svc *Service, log RunLog, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log, logger: logger}
}

// RegisterRoutes mounts the trigger and the run history; both sit behind
// the admin guard.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/newsletter/notify", authMW, h.notify)
	rg.GET("/admin/newsletter/dispatches", authMW, h.list)
}

func (h *Handler) notify(c *gin.Context) {
	var dto ContentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()

	// A publish hook firing twice must not blast subscribers twice.
	if h.log != nil {
		if prev, err := h.log.FindRecent(ctx, dto.ID); err == nil && prev != nil {
			response.OK(c, gin.H{
				"success":           true,
				"duplicate":         true,
				"sent":              prev.Sent,
				"perLanguageCounts": prev.PerLanguage,
				"errors":            prev.Errors,
			})
			return
		}
	}

	res, err := h.svc.Notify(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if h.log != nil {
		// An unrecorded run leaves the next trigger for this content
		// without dedup protection, so the failure has to be visible.
		if _, err := h.log.Record(ctx, &dispatchlog.Entry{
			ContentID:   dto.ID,
			Slug:        dto.Slug,
			Sent:        res.Sent,
			PerLanguage: res.PerLanguage,
			Errors:      res.Errors,
		}); err != nil {
			h.logger.Warn("dispatch log write failed",
				zap.String("content_id", dto.ID),
				zap.Error(err))
		}
	}

	response.OK(c, gin.H{
		"success":           true,
		"sent":              res.Sent,
		"perLanguageCounts": res.PerLanguage,
		"errors":            res.Errors,
	})
}

func (h *Handler) list(c *gin.Context) {
	if h.log == nil {
		response.OK(c, gin.H{"data": []interface{}{}})
		return
	}
	q := pagination.FromContext(c)
	entries, total, err := h.log.List(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, entries, q.Meta(total))
}
