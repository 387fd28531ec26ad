package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the state of a project. All transitions are
// allowed; the status is freely settable.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusArchived  ProjectStatus = "archived"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// ValidProjectStatus reports whether s is a known project status
func ValidProjectStatus(s string) bool {
	switch ProjectStatus(s) {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project represents a project owned by a tenant
type Project struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID     `json:"tenantId" gorm:"type:uuid;index;not null"`
	Name        string        `json:"name" gorm:"not null"`
	Description *string       `json:"description"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);default:active"`
	// CreatedBy is a weak reference used for lookups and the
	// creator-or-admin mutation rule; it does not own the row.
	CreatedBy uuid.UUID `json:"createdBy" gorm:"type:uuid;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}
