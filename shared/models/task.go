package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the state of a task. Any-to-any transitions
// are allowed, including setting the current status again.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ValidTaskStatus reports whether s is a known task status
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ValidTaskPriority reports whether p is a known priority
func ValidTaskPriority(p string) bool {
	switch TaskPriority(p) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task represents a task within a project. TenantID is denormalized
// from the project so isolation checks never need a join.
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID    `json:"projectId" gorm:"type:uuid;index;not null"`
	TenantID    uuid.UUID    `json:"tenantId" gorm:"type:uuid;index;not null"`
	Title       string       `json:"title" gorm:"not null"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);default:todo"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(20);default:medium"`
	// AssignedTo must reference a user in the task's tenant;
	// enforced at write time, not by a database constraint.
	AssignedTo *uuid.UUID `json:"assignedTo" gorm:"type:uuid;index"`
	DueDate    *time.Time `json:"dueDate"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}
