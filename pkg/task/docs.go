package task

import "github.com/campus-compass/calendar-manager/pkg/model"

// swagger:parameters findTask updateTask setTaskPriority completeTask deleteTask
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters listTasks
type _ struct {
	// Only list tasks in this state
	// in: query
	// required: false
	Completed bool `json:"completed"`
}

// swagger:parameters createTask
type _ struct {
	// Create task request body parameter
	// in: body
	// required: true
	Body CreateTaskRequest
}

// swagger:parameters updateTask
type _ struct {
	// Update task request body parameter
	// in: body
	// required: true
	Body UpdateTaskRequest
}

// swagger:parameters setTaskPriority
type _ struct {
	// in: body
	// required: true
	Body PriorityRequest
}

// swagger:response Tasks
type _ struct {
	// in: body
	_ []model.Task
}
