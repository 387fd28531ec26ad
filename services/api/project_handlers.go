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

// CreateProjectRequest represents the create project request
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=active archived completed"`
}

// UpdateProjectRequest represents the update project request. Only
// fields present in the body are applied; an explicit null description
// clears the field.
type UpdateProjectRequest struct {
	Name        *string                   `json:"name"`
	Description models.PatchField[string] `json:"description"`
	Status      *string                   `json:"status"`
}

// handleCreateProject creates a project for the principal's tenant
// after the project quota check.
func handleCreateProject(db *gorm.DB, quota *utils.QuotaEnforcer, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		var req CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		if err := quota.CheckProjectQuota(principal.TenantID); err != nil {
			switch {
			case utils.IsQuotaError(err):
				utils.ForbiddenResponse(c, err.Error())
			case errors.Is(err, gorm.ErrRecordNotFound):
				utils.NotFoundResponse(c, "Tenant not found")
			default:
				utils.InternalServerErrorResponse(c, "Failed to check project limit")
			}
			return
		}

		status := models.ProjectStatusActive
		if req.Status != "" {
			status = models.ProjectStatus(req.Status)
		}

		project := models.Project{
			ID:          uuid.New(),
			TenantID:    principal.TenantID,
			Name:        req.Name,
			Description: req.Description,
			Status:      status,
			CreatedBy:   principal.UserID,
		}
		if err := db.Create(&project).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create project")
			return
		}

		audit.Record(principal.TenantID, principal.UserID, models.ActionProjectCreated,
			"project", project.ID.String(), c.ClientIP(), nil)

		utils.CreatedResponse(c, "Project created successfully", gin.H{
			"id":          project.ID,
			"tenantId":    project.TenantID,
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"createdBy":   project.CreatedBy,
			"createdAt":   project.CreatedAt,
		})
	}
}

// handleListProjects lists the principal's tenant's projects with
// status/search filters, task counts and creator summaries.
func handleListProjects(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		page, limit, offset := parsePagination(c, 20)

		query := db.Model(&models.Project{}).Where("tenant_id = ?", principal.TenantID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("LOWER(name) LIKE ?", searchPattern(search))
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch projects")
			return
		}

		var projects []models.Project
		if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&projects).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch projects")
			return
		}

		list := make([]gin.H, len(projects))
		for i, project := range projects {
			var taskCount, completedCount int64
			db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount)
			db.Model(&models.Task{}).Where("project_id = ? AND status = ?", project.ID, models.TaskStatusCompleted).Count(&completedCount)

			var creator gin.H
			var creatorUser models.User
			if err := db.Select("id", "full_name").Where("id = ?", project.CreatedBy).First(&creatorUser).Error; err == nil {
				creator = gin.H{"id": creatorUser.ID, "fullName": creatorUser.FullName}
			}

			list[i] = gin.H{
				"id":                 project.ID,
				"name":               project.Name,
				"description":        project.Description,
				"status":             project.Status,
				"createdBy":          creator,
				"taskCount":          taskCount,
				"completedTaskCount": completedCount,
				"createdAt":          project.CreatedAt,
			}
		}

		utils.OKResponse(c, "Projects retrieved successfully", gin.H{
			"projects":   list,
			"total":      total,
			"pagination": paginationMeta(total, page, limit),
		})
	}
}

// handleUpdateProject applies a partial patch to a project. Requires
// the creator or a tenant admin within the project's tenant.
func handleUpdateProject(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid project ID")
			return
		}

		var project models.Project
		if err := db.Where("id = ?", projectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Project not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch project")
			}
			return
		}

		if !guard.CheckOwnedMutation(c, principal, project.TenantID, project.CreatedBy, "project", projectID.String()) {
			return
		}

		var req UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description.Set {
			updates["description"] = req.Description.Value
		}
		if req.Status != nil {
			if !models.ValidProjectStatus(*req.Status) {
				utils.BadRequestResponse(c, "Invalid project status")
				return
			}
			updates["status"] = *req.Status
		}

		if len(updates) > 0 {
			if err := db.Model(&project).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update project")
				return
			}
		}

		audit.Record(project.TenantID, principal.UserID, models.ActionProjectUpdated,
			"project", projectID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Project updated successfully", gin.H{
			"id":          project.ID,
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"updatedAt":   project.UpdatedAt,
		})
	}
}

// handleDeleteProject deletes a project and its tasks in one
// transaction, so no orphan task rows remain.
func handleDeleteProject(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid project ID")
			return
		}

		var project models.Project
		if err := db.Where("id = ?", projectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Project not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch project")
			}
			return
		}

		if !guard.CheckOwnedMutation(c, principal, project.TenantID, project.CreatedBy, "project", projectID.String()) {
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			return tx.Delete(&project).Error
		})
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete project")
			return
		}

		audit.Record(project.TenantID, principal.UserID, models.ActionProjectDeleted,
			"project", projectID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Project deleted successfully", nil)
	}
}
