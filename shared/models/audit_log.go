package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the closed vocabulary of auditable actions. Passing
// anything outside this set to the recorder is a programming error.
type AuditAction string

const (
	// Auth
	ActionUserRegistered AuditAction = "USER_REGISTERED"
	ActionUserLogin      AuditAction = "USER_LOGIN"
	ActionUserLogout     AuditAction = "USER_LOGOUT"

	// User management
	ActionUserCreated AuditAction = "USER_CREATED"
	ActionUserUpdated AuditAction = "USER_UPDATED"
	ActionUserDeleted AuditAction = "USER_DELETED"

	// Project management
	ActionProjectCreated AuditAction = "PROJECT_CREATED"
	ActionProjectUpdated AuditAction = "PROJECT_UPDATED"
	ActionProjectDeleted AuditAction = "PROJECT_DELETED"

	// Task management
	ActionTaskCreated       AuditAction = "TASK_CREATED"
	ActionTaskUpdated       AuditAction = "TASK_UPDATED"
	ActionTaskStatusUpdated AuditAction = "TASK_STATUS_UPDATED"
	ActionTaskDeleted       AuditAction = "TASK_DELETED"

	// Tenant management
	ActionTenantCreated AuditAction = "TENANT_CREATED"
	ActionTenantUpdated AuditAction = "TENANT_UPDATED"

	// Authorization
	ActionUnauthorizedAccessAttempt AuditAction = "UNAUTHORIZED_ACCESS_ATTEMPT"
)

// AuditLog is an append-only record of a security- or
// business-relevant action. Rows are never updated or deleted by the
// application.
type AuditLog struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID   `json:"tenantId" gorm:"type:uuid;index"`
	UserID     uuid.UUID   `json:"userId" gorm:"type:uuid;index"`
	Action     AuditAction `json:"action" gorm:"type:varchar(50);index;not null"`
	EntityType string      `json:"entityType" gorm:"type:varchar(50)"`
	EntityID   string      `json:"entityId" gorm:"type:varchar(255)"`
	IPAddress  string      `json:"ipAddress" gorm:"type:varchar(45)"`
	Details    *string     `json:"details,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
