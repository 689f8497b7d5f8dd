package task

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/internal/handler"
	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewHandler(taskService taskService) Handler {
	return Handler{taskService}
}

type Handler struct {
	taskService taskService
}

type taskService interface {
	CreateTask(ctx context.Context, userID uint, task *model.Task) (*model.Task, error)
	FindTask(ctx context.Context, id, userID uint) (*model.Task, error)
	FindTasks(ctx context.Context, userID uint, completed *bool) ([]model.Task, error)
	UpdateTask(ctx context.Context, id, userID uint, update TaskUpdate) (*model.Task, error)
	SetPriority(ctx context.Context, id, userID uint, priority model.Priority) (*model.Task, error)
	CompleteTask(ctx context.Context, id, userID uint) (*model.Task, error)
	DeleteTask(ctx context.Context, id, userID uint) error
}

type CreateTaskRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority" binding:"omitempty,oneOf=low medium high"`
	DueDate     *time.Time     `json:"dueDate"`
}

// Create task
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /tasks createTask
	//
	// Create task
	//
	// Add a task to the user's task list. The priority defaults to medium
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Task
	//   400: Error
	//   401: Error
	//   403: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request CreateTaskRequest
	if err := handler.DataBinder(c, &request); err != nil {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), user.ID, &model.Task{
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
		DueDate:     request.DueDate,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List tasks
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /tasks listTasks
	//
	// List tasks
	//
	// List the user's tasks. Open tasks come first, ordered by due date
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Task
	//   400: Error
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var completed *bool
	if value, ok := c.GetQuery("completed"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			_ = c.Error(errdef.NewBadRequest("query parameter \"completed\" is not a boolean: %v", err))
			return
		}
		completed = &b
	}

	tasks, err := h.taskService.FindTasks(c.Request.Context(), user.ID, completed)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	c.JSON(http.StatusOK, tasks)
}

// Find task
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /tasks/{id} findTask
	//
	// Find task
	//
	// Find a task by id
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Task
	//   400: Error
	//   401: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	task, err := h.taskService.FindTask(c.Request.Context(), id, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

type UpdateTaskRequest struct {
	Title        *string         `json:"title" binding:"omitempty,min=1"`
	Description  *string         `json:"description"`
	Priority     *model.Priority `json:"priority" binding:"omitempty,oneOf=low medium high"`
	DueDate      *time.Time      `json:"dueDate"`
	ClearDueDate bool            `json:"clearDueDate"`
	Completed    *bool           `json:"completed"`
}

// Update task
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /tasks/{id} updateTask
	//
	// Update task
	//
	// Update the fields present in the request
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Task
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request UpdateTaskRequest
	if err := handler.DataBinder(c, &request); err != nil {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), id, user.ID, TaskUpdate{
		Title:        request.Title,
		Description:  request.Description,
		Priority:     request.Priority,
		DueDate:      request.DueDate,
		ClearDueDate: request.ClearDueDate,
		Completed:    request.Completed,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

type PriorityRequest struct {
	Priority model.Priority `json:"priority" binding:"required,oneOf=low medium high"`
}

// Priority of a task
func (h Handler) Priority(c *gin.Context) {
	// swagger:route PUT /tasks/{id}/priority setTaskPriority
	//
	// Set task priority
	//
	// Set the priority of a task
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Task
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request PriorityRequest
	if err := handler.DataBinder(c, &request); err != nil {
		return
	}

	task, err := h.taskService.SetPriority(c.Request.Context(), id, user.ID, request.Priority)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Complete task
func (h Handler) Complete(c *gin.Context) {
	// swagger:route PUT /tasks/{id}/complete completeTask
	//
	// Complete task
	//
	// Mark a task as completed
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Task
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	task, err := h.taskService.CompleteTask(c.Request.Context(), id, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete task
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /tasks/{id} deleteTask
	//
	// Delete task
	//
	// Delete a task
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), id, user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}
