package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc     *taskUC.UseCase
	locale string
}

func NewTaskHandler(uc *taskUC.UseCase, locale string, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		locale:      locale,
	}
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.TaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	due, err := domain.ParseDueDate(req.DueDate)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	created, err := h.uc.CreateTask(stdCtx, &domain.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Responsible: req.Responsible,
		DueDate:     due,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewTaskView(*created, localeOf(ctx, h.locale)))
}

// @Summary Get task
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskView(*task, localeOf(ctx, h.locale)))
}

// @Summary Edit task fields
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.TaskUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	in := taskUC.UpdateInput{Title: req.Title, Responsible: req.Responsible}
	if req.DueDate != nil {
		due, err := domain.ParseDueDate(*req.DueDate)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		in.DueDate = &due
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		in.Status = &status
	}

	updated, err := h.uc.UpdateTask(stdCtx, id, in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskView(*updated, localeOf(ctx, h.locale)))
}

// @Summary Delete task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.DeleteResponse{Message: "Tarefa excluída com sucesso", ID: id})
}

// @Summary Mark task as done, or move it to the given status
// @Tags tasks
// @Router /api/tasks/{id}/complete [patch]
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.TaskStatusRequest
	if len(ctx.PostBody()) > 0 && !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.CompleteTask(stdCtx, id, req.Status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskView(*task, localeOf(ctx, h.locale)))
}

// @Summary Set task status
// @Tags tasks
// @Router /api/tasks/{id}/status [patch]
func (h *TaskHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.TaskStatusRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	task, err := h.uc.SetStatus(stdCtx, id, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskView(*task, localeOf(ctx, h.locale)))
}
