package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase/sweep"
)

type SweepHandler struct {
	baseHandler
	sweeper *sweep.Sweeper
}

func NewSweepHandler(sweeper *sweep.Sweeper, adapter *httpcontext.Adapter, logger *zap.Logger) *SweepHandler {
	return &SweepHandler{
		baseHandler: newBaseHandler(adapter, logger),
		sweeper:     sweeper,
	}
}

// @Summary Move every overdue open task to VENCIDA
// @Tags tasks
// @Router /api/tasks/update-overdue [get]
func (h *SweepHandler) UpdateOverdue(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.sweeper.Run(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.SweepResponse{UpdatedCount: result.UpdatedCount})
}
