package model

import (
	"fmt"
	"time"
)

// swagger:enum Priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is an entry in a user's task list.
// swagger:model
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      uint       `json:"userId" gorm:"index;not null"`
	User        *User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority" gorm:"not null"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
}

func (t Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", t.Priority)
	}
	return nil
}
