package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
)

// SubscriptionPlan represents a tenant's subscription tier
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// PlanLimits holds the resource caps derived from a subscription plan
type PlanLimits struct {
	MaxUsers    int
	MaxProjects int
}

// DefaultPlanLimits maps each plan to the caps applied at tenant creation.
// Limits are plan-derived at creation time only; a super_admin can change
// them independently afterwards.
var DefaultPlanLimits = map[SubscriptionPlan]PlanLimits{
	PlanFree:       {MaxUsers: 5, MaxProjects: 3},
	PlanPro:        {MaxUsers: 25, MaxProjects: 15},
	PlanEnterprise: {MaxUsers: 100, MaxProjects: 50},
}

// Tenant represents an organization in the multi-tenant system
type Tenant struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string           `json:"name" gorm:"not null"`
	Subdomain        string           `json:"subdomain" gorm:"uniqueIndex;not null"`
	Status           TenantStatus     `json:"status" gorm:"type:varchar(20);default:active"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan" gorm:"type:varchar(20);default:free"`
	MaxUsers         int              `json:"maxUsers" gorm:"not null"`
	MaxProjects      int              `json:"maxProjects" gorm:"not null"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`

	// Relationships
	Users    []User    `json:"users,omitempty" gorm:"foreignKey:TenantID"`
	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// IsActive reports whether the tenant may be logged into
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// ValidTenantStatus reports whether s is a known tenant status
func ValidTenantStatus(s string) bool {
	switch TenantStatus(s) {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTrial:
		return true
	}
	return false
}

// ValidSubscriptionPlan reports whether p is a known plan
func ValidSubscriptionPlan(p string) bool {
	_, ok := DefaultPlanLimits[SubscriptionPlan(p)]
	return ok
}
