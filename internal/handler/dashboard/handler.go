package dashboard

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type StatsService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type Handler struct {
	service StatsService
}

func NewHandler(service StatsService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects r to require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard-stats/", h.Stats)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}
