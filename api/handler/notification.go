package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/logger"
	notificationUC "github.com/fastygo/taskboard/usecase/notification"
)

type NotificationHandler struct {
	baseHandler
	uc *notificationUC.UseCase
}

func NewNotificationHandler(uc *notificationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Due-date alerts not yet shown to this session
// @Tags notifications
// @Param sessionId query string false "falls back to the X-Session-ID header"
// @Param projectId query string false "restrict to one project"
// @Router /api/notifications [get]
func (h *NotificationHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session := logger.SessionID(stdCtx)
	if q := string(ctx.QueryArgs().Peek("sessionId")); q != "" {
		session = q
	}

	notes, err := h.uc.Check(stdCtx, session, string(ctx.QueryArgs().Peek("projectId")))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(notes, len(notes), ""))
}
