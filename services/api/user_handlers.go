package main

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamtrack/teamtrack/shared/middleware"
	"github.com/teamtrack/teamtrack/shared/models"
	"github.com/teamtrack/teamtrack/shared/utils"
)

// CreateUserRequest represents the add-user-to-tenant request
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required,min=2,max=255"`
	Role     string `json:"role" binding:"required,oneof=user tenant_admin"`
}

// UpdateUserRequest represents the update user request
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"fullName":  user.FullName,
		"role":      user.Role,
		"tenantId":  user.TenantID,
		"isActive":  user.IsActive,
		"createdAt": user.CreatedAt,
	}
}

// handleCreateTenantUser adds a user to a tenant, enforcing the user
// quota and per-tenant email uniqueness. Routed behind the admin role
// gate; the tenant match is checked here.
func handleCreateTenantUser(db *gorm.DB, guard *middleware.Guard, quota *utils.QuotaEnforcer, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		tenantID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid tenant ID")
			return
		}

		if !guard.CheckTenantAccess(c, principal, tenantID, "tenant", tenantID.String()) {
			return
		}

		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		// Quota check and insert are deliberately not atomic; see
		// QuotaEnforcer.
		if err := quota.CheckUserQuota(tenantID); err != nil {
			switch {
			case utils.IsQuotaError(err):
				utils.ForbiddenResponse(c, err.Error())
			case errors.Is(err, gorm.ErrRecordNotFound):
				utils.NotFoundResponse(c, "Tenant not found")
			default:
				utils.InternalServerErrorResponse(c, "Failed to check user limit")
			}
			return
		}

		var existing models.User
		if err := db.Where("email = ? AND tenant_id = ?", req.Email, tenantID).First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "Email already exists in this tenant")
			return
		}

		passwordHash, err := utils.HashPassword(req.Password)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create user")
			return
		}

		user := models.User{
			ID:           uuid.New(),
			TenantID:     tenantID,
			Email:        req.Email,
			PasswordHash: passwordHash,
			FullName:     req.FullName,
			Role:         models.UserRole(req.Role),
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create user")
			return
		}

		audit.Record(tenantID, principal.UserID, models.ActionUserCreated,
			"user", user.ID.String(), c.ClientIP(), nil)

		utils.CreatedResponse(c, "User created successfully", userSummary(&user))
	}
}

// handleListTenantUsers lists a tenant's users with search/role filters
func handleListTenantUsers(db *gorm.DB, guard *middleware.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		tenantID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid tenant ID")
			return
		}

		if !guard.CheckTenantAccess(c, principal, tenantID, "tenant", tenantID.String()) {
			return
		}

		page, limit, offset := parsePagination(c, 50)

		query := db.Model(&models.User{}).Where("tenant_id = ?", tenantID)
		if search := c.Query("search"); search != "" {
			pattern := searchPattern(search)
			query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern)
		}
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tenant users")
			return
		}

		var users []models.User
		if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tenant users")
			return
		}

		list := make([]gin.H, len(users))
		for i := range users {
			list[i] = userSummary(&users[i])
		}

		utils.OKResponse(c, "Tenant users retrieved successfully", gin.H{
			"users":      list,
			"total":      total,
			"pagination": paginationMeta(total, page, limit),
		})
	}
}

// handleUpdateUser updates a user. A user may change their own full
// name only; role and active flag changes require an admin of the
// user's tenant (or super_admin) acting on someone else.
func handleUpdateUser(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid user ID")
			return
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "User not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch user")
			}
			return
		}

		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		isSelf := principal.UserID == userID
		isAdminOfTenant := principal.Can(models.CapPlatformAdmin) ||
			(principal.Can(models.CapManageTenantUsers) && principal.TenantID == user.TenantID)

		if !isSelf && !isAdminOfTenant {
			guard.Deny(c, principal, "user", userID.String(), "Unauthorized")
			return
		}
		// Role and active-flag changes on your own account are always
		// denied, admin or not.
		if isSelf && (req.Role != nil || req.IsActive != nil) {
			guard.Deny(c, principal, "user", userID.String(), "You can only update your full name")
			return
		}

		updates := map[string]interface{}{}
		if req.FullName != nil {
			updates["full_name"] = *req.FullName
		}
		if isAdminOfTenant && req.Role != nil {
			if !models.ValidAssignableRole(*req.Role) {
				utils.BadRequestResponse(c, "Invalid role")
				return
			}
			updates["role"] = *req.Role
		}
		if isAdminOfTenant && req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update user")
				return
			}
		}

		audit.Record(user.TenantID, principal.UserID, models.ActionUserUpdated,
			"user", userID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "User updated successfully", gin.H{
			"id":        user.ID,
			"fullName":  user.FullName,
			"role":      user.Role,
			"isActive":  user.IsActive,
			"updatedAt": user.UpdatedAt,
		})
	}
}

// handleDeleteUser removes a user. Admin only (role gate in the
// router), same tenant unless super_admin, and never yourself.
func handleDeleteUser(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid user ID")
			return
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "User not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch user")
			}
			return
		}

		if !guard.CheckTenantAccess(c, principal, user.TenantID, "user", userID.String()) {
			return
		}

		if principal.UserID == userID {
			guard.Deny(c, principal, "user", userID.String(), "Cannot delete yourself")
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete user")
			return
		}

		audit.Record(user.TenantID, principal.UserID, models.ActionUserDeleted,
			"user", userID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "User deleted successfully", nil)
	}
}
