package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	projectUC "github.com/fastygo/taskboard/usecase/project"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

type ProjectHandler struct {
	baseHandler
	uc     *projectUC.UseCase
	tasks  *taskUC.UseCase
	locale string
}

func NewProjectHandler(uc *projectUC.UseCase, tasks *taskUC.UseCase, locale string, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		tasks:       tasks,
		locale:      locale,
	}
}

// @Summary List projects with their tasks and counters
// @Tags projects
// @Router /api/projects [get]
func (h *ProjectHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	projects, err := h.uc.ListProjects(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(projects, len(projects), ""))
}

// @Summary Create project
// @Tags projects
// @Router /api/projects [post]
func (h *ProjectHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.ProjectRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	project, err := h.uc.CreateProject(stdCtx, req.Name)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, project)
}

// @Summary Get project
// @Tags projects
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	project, err := h.uc.GetProject(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, project)
}

// @Summary Rename project
// @Tags projects
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Rename(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.ProjectRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	project, err := h.uc.RenameProject(stdCtx, id, req.Name)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, project)
}

// @Summary Delete project and its tasks
// @Tags projects
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteProject(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary List a project's tasks, optionally filtered
// @Tags projects
// @Param filter query string false "TODAS, PENDENTES, CONCLUIDAS or VENCIDAS"
// @Router /api/projects/{id}/tasks [get]
func (h *ProjectHandler) Tasks(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	filter := domain.TaskListFilter(ctx.QueryArgs().Peek("filter"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.GetProject(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	tasks, err := h.tasks.ListTasks(stdCtx, id, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(transport.NewTaskViews(tasks, localeOf(ctx, h.locale)), len(tasks), string(filter)))
}

// localeOf lets a request override the display locale with ?locale=.
func localeOf(ctx *fasthttp.RequestCtx, fallback string) string {
	if l := string(ctx.QueryArgs().Peek("locale")); l != "" {
		return l
	}
	return fallback
}
