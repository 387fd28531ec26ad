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

// UpdateTenantRequest represents the update tenant request. Fields
// beyond name require a super_admin principal.
type UpdateTenantRequest struct {
	Name             *string `json:"name"`
	Status           *string `json:"status"`
	SubscriptionPlan *string `json:"subscriptionPlan"`
	MaxUsers         *int    `json:"maxUsers"`
	MaxProjects      *int    `json:"maxProjects"`
}

// handleGetTenant returns tenant details with usage stats
func handleGetTenant(db *gorm.DB, guard *middleware.Guard) gin.HandlerFunc {
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

		var tenant models.Tenant
		if err := db.Where("id = ?", tenantID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Tenant not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch tenant")
			}
			return
		}

		var userCount, projectCount, taskCount int64
		db.Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&userCount)
		db.Model(&models.Project{}).Where("tenant_id = ?", tenantID).Count(&projectCount)
		db.Model(&models.Task{}).Where("tenant_id = ?", tenantID).Count(&taskCount)

		utils.OKResponse(c, "Tenant retrieved successfully", gin.H{
			"id":               tenant.ID,
			"name":             tenant.Name,
			"subdomain":        tenant.Subdomain,
			"status":           tenant.Status,
			"subscriptionPlan": tenant.SubscriptionPlan,
			"maxUsers":         tenant.MaxUsers,
			"maxProjects":      tenant.MaxProjects,
			"createdAt":        tenant.CreatedAt,
			"updatedAt":        tenant.UpdatedAt,
			"stats": gin.H{
				"totalUsers":    userCount,
				"totalProjects": projectCount,
				"totalTasks":    taskCount,
			},
		})
	}
}

// handleUpdateTenant updates a tenant. tenant_admin may rename their
// own tenant; sending status, plan or limit fields without super_admin
// is denied.
func handleUpdateTenant(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
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

		var tenant models.Tenant
		if err := db.Where("id = ?", tenantID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Tenant not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch tenant")
			}
			return
		}

		var req UpdateTenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		restricted := req.Status != nil || req.SubscriptionPlan != nil ||
			req.MaxUsers != nil || req.MaxProjects != nil
		if restricted && !principal.Can(models.CapPlatformAdmin) {
			guard.Deny(c, principal, "tenant", tenantID.String(), "You can only update tenant name")
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}

		if principal.Can(models.CapPlatformAdmin) {
			if req.Status != nil {
				if !models.ValidTenantStatus(*req.Status) {
					utils.BadRequestResponse(c, "Invalid tenant status")
					return
				}
				updates["status"] = *req.Status
			}
			if req.SubscriptionPlan != nil {
				if !models.ValidSubscriptionPlan(*req.SubscriptionPlan) {
					utils.BadRequestResponse(c, "Invalid subscription plan")
					return
				}
				updates["subscription_plan"] = *req.SubscriptionPlan
			}
			if req.MaxUsers != nil {
				updates["max_users"] = *req.MaxUsers
			}
			if req.MaxProjects != nil {
				updates["max_projects"] = *req.MaxProjects
			}
		}

		if len(updates) > 0 {
			if err := db.Model(&tenant).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update tenant")
				return
			}
		}

		audit.Record(tenantID, principal.UserID, models.ActionTenantUpdated,
			"tenant", tenantID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Tenant updated successfully", gin.H{
			"id":        tenant.ID,
			"name":      tenant.Name,
			"updatedAt": tenant.UpdatedAt,
		})
	}
}

// handleListTenants returns a paginated tenant list with per-tenant
// usage counts. Routed behind the super_admin role gate.
func handleListTenants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := parsePagination(c, 10)

		var total int64
		if err := db.Model(&models.Tenant{}).Count(&total).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tenants")
			return
		}

		var tenants []models.Tenant
		if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tenants).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tenants")
			return
		}

		list := make([]gin.H, len(tenants))
		for i, tenant := range tenants {
			var userCount, projectCount int64
			db.Model(&models.User{}).Where("tenant_id = ?", tenant.ID).Count(&userCount)
			db.Model(&models.Project{}).Where("tenant_id = ?", tenant.ID).Count(&projectCount)

			list[i] = gin.H{
				"id":               tenant.ID,
				"name":             tenant.Name,
				"subdomain":        tenant.Subdomain,
				"status":           tenant.Status,
				"subscriptionPlan": tenant.SubscriptionPlan,
				"totalUsers":       userCount,
				"totalProjects":    projectCount,
				"createdAt":        tenant.CreatedAt,
			}
		}

		utils.OKResponse(c, "Tenants retrieved successfully", gin.H{
			"tenants":    list,
			"total":      total,
			"pagination": paginationMeta(total, page, limit),
		})
	}
}
