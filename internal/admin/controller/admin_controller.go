package controller

import (
	"context"
	"net/http"

	"wmx/internal/dto"
	"wmx/internal/httpx"
)

type StatsUseCase interface {
	OrderStats(ctx context.Context) (*dto.OrderStatsResponse, error)
}

type AdminController struct {
	stats     StatsUseCase
	responder *httpx.Responder
}

func NewAdminController(stats StatsUseCase, responder *httpx.Responder) *AdminController {
	return &AdminController{stats: stats, responder: responder}
}

func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.OrderStats(r.Context())
	if err != nil {
		c.responder.Error(w, r, err)
		return
	}
	c.responder.OK(w, stats)
}
