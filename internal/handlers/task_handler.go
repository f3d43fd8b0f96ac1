package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskapp/backend/internal/auth/middleware"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
)

// TaskService is the interface that wraps methods for task business logic
type TaskService interface {
	// Method ListTasks retrieves the tasks visible to the requester.
	//
	// "requester" parameter decides the scope: administrators see every task, other users see tasks they created or are assigned to.
	// "filter" parameter holds optional status and priority filters and the sort field.
	//
	// If the sort field is unknown, a ValidationError will be returned together with "nil" value.
	ListTasks(ctx context.Context, requester *models.User, filter models.TaskFilter) ([]models.Task, error)
	// Method GetTask retrieves one task.
	//
	// If task does not exist, a NotFoundError is returned. If the requester may not see it, a ForbiddenError is returned.
	GetTask(ctx context.Context, requester *models.User, id int) (*models.Task, error)
	// Method CreateTask creates a task with the requester as creator.
	//
	// "req" parameter contains title and the optional description, due_date, priority, status and assignee_id.
	//
	// If input is invalid, a ValidationError will be returned together with "nil" value.
	CreateTask(ctx context.Context, requester *models.User, req *models.CreateTaskRequest) (*models.Task, error)
	// Method UpdateTask merges the present fields of "req" into the task.
	//
	// Only the creator and the assignee may update a task, otherwise a ForbiddenError is returned.
	UpdateTask(ctx context.Context, requester *models.User, id int, req *models.UpdateTaskRequest) (*models.Task, error)
	// Method DeleteTask removes a task.
	//
	// Only the creator may delete a task, otherwise a ForbiddenError is returned.
	DeleteTask(ctx context.Context, requester *models.User, id int) error
}

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	BaseHandler
	taskService TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		BaseHandler: BaseHandler{Logger: logger},
		taskService: taskService,
	}
}

// RegisterRoutes registers all task handler routes
// Note: This assumes the router is already scoped to /api
func (h *TaskHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})
}

// ListTasks handles GET /tasks
// @Summary List tasks
// @Description List tasks created by or assigned to the user (every task for administrators).
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by status" Enums(pending, in-progress, completed)
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Param sort_by query string false "Sort field" Enums(due_date, priority, created_at) default(due_date)
// @Success 200 {array} models.Task "Tasks"
// @Failure 400 {object} map[string]string "Invalid sort field"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := models.TaskFilter{
		Status:   models.Status(query.Get("status")),
		Priority: models.Priority(query.Get("priority")),
		SortBy:   models.SortField(query.Get("sort_by")),
	}

	tasks, err := h.taskService.ListTasks(r.Context(), user, filter)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}
// @Summary Get task
// @Description Get one task the user created or is assigned to.
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task "Task"
// @Failure 400 {object} map[string]string "Invalid task ID"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), user, id)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, task)
}

// CreateTask handles POST /tasks
// @Summary Create task
// @Description Create a task. Priority defaults to medium and status to pending.
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateTaskRequest true "Task data"
// @Success 201 {object} models.Task "Created task"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PUT /tasks/{id}
// @Summary Update task
// @Description Update a task as its creator or assignee. Keys absent from the body are left unchanged.
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Param request body models.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} models.Task "Updated task"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), user, id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}
// @Summary Delete task
// @Description Delete a task. Only its creator may do this.
// @Tags tasks
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 204 "Task deleted"
// @Failure 400 {object} map[string]string "Invalid task ID"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requester(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), user, id); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) requester(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "token is missing")
		return nil, false
	}
	return user, true
}

func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}
