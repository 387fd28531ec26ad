package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the closed set of roles in the system
type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleTenantAdmin UserRole = "tenant_admin"
	RoleUser        UserRole = "user"
)

// ValidAssignableRole reports whether r can be given to a tenant user.
// super_admin is never assignable through the API.
func ValidAssignableRole(r string) bool {
	return UserRole(r) == RoleTenantAdmin || UserRole(r) == RoleUser
}

// User represents a tenant user record
type User struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	// Email is unique within a tenant, not globally
	TenantID     uuid.UUID `json:"tenantId" gorm:"type:uuid;index;uniqueIndex:idx_users_tenant_email;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex:idx_users_tenant_email;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FullName     string    `json:"fullName" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);default:user"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Capability names an operation class a role may perform
type Capability string

const (
	// CapPlatformAdmin bypasses all tenant checks and unlocks
	// plan/limit/status fields on tenant updates.
	CapPlatformAdmin Capability = "platform_admin"
	// CapManageTenantUsers allows creating, updating and deleting
	// users within the principal's own tenant.
	CapManageTenantUsers Capability = "manage_tenant_users"
	// CapEditTenantResources allows mutating projects regardless of
	// who created them, within the principal's own tenant.
	CapEditTenantResources Capability = "edit_tenant_resources"
	// CapUpdateTenantName allows renaming the principal's own tenant.
	CapUpdateTenantName Capability = "update_tenant_name"
)

// roleCapabilities is the single place role strings are interpreted.
// Handlers ask the principal, never compare role values inline.
var roleCapabilities = map[UserRole]map[Capability]bool{
	RoleSuperAdmin: {
		CapPlatformAdmin:       true,
		CapManageTenantUsers:   true,
		CapEditTenantResources: true,
		CapUpdateTenantName:    true,
	},
	RoleTenantAdmin: {
		CapManageTenantUsers:   true,
		CapEditTenantResources: true,
		CapUpdateTenantName:    true,
	},
	RoleUser: {},
}

// Principal is the authenticated identity for a request, derived from
// a verified token.
type Principal struct {
	UserID   uuid.UUID `json:"userId"`
	TenantID uuid.UUID `json:"tenantId"`
	Role     UserRole  `json:"role"`
}

// Can reports whether the principal's role grants the capability
func (p *Principal) Can(cap Capability) bool {
	return roleCapabilities[p.Role][cap]
}

// CanAccessTenant reports whether the principal may read resources
// owned by the given tenant
func (p *Principal) CanAccessTenant(tenantID uuid.UUID) bool {
	if p.Can(CapPlatformAdmin) {
		return true
	}
	return p.TenantID == tenantID
}

// CanModifyOwned reports whether the principal may mutate a resource
// owned by tenantID and created by creatorID. The principal must be
// the creator, or hold an admin capability within the matching tenant.
func (p *Principal) CanModifyOwned(tenantID, creatorID uuid.UUID) bool {
	if p.Can(CapPlatformAdmin) {
		return true
	}
	if p.TenantID != tenantID {
		return false
	}
	return p.UserID == creatorID || p.Can(CapEditTenantResources)
}
