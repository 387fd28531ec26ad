package main

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamtrack/teamtrack/shared/middleware"
	"github.com/teamtrack/teamtrack/shared/models"
	"github.com/teamtrack/teamtrack/shared/utils"
)

// CreateTaskRequest represents the create task request
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	Description *string    `json:"description"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest represents the full task update request. Only
// fields present are applied; explicit nulls clear description,
// assignee and due date.
type UpdateTaskRequest struct {
	Title       *string                      `json:"title"`
	Description models.PatchField[string]    `json:"description"`
	Status      *string                      `json:"status"`
	Priority    *string                      `json:"priority"`
	AssignedTo  models.PatchField[uuid.UUID] `json:"assignedTo"`
	DueDate     models.PatchField[time.Time] `json:"dueDate"`
}

// UpdateTaskStatusRequest represents the status-only update request
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress completed"`
}

// assigneeInTenant checks that the assignee belongs to the tenant.
// Cross-entity invariant, enforced at write time.
func assigneeInTenant(db *gorm.DB, userID, tenantID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("id = ? AND tenant_id = ?", userID, tenantID).Count(&count).Error
	return count > 0, err
}

func taskAssigneeSummary(db *gorm.DB, task *models.Task) gin.H {
	if task.AssignedTo == nil {
		return nil
	}
	var user models.User
	if err := db.Select("id", "full_name", "email").Where("id = ?", *task.AssignedTo).First(&user).Error; err != nil {
		return nil
	}
	return gin.H{"id": user.ID, "fullName": user.FullName, "email": user.Email}
}

// handleCreateTask creates a task under a project of the principal's
// tenant. TenantID is denormalized onto the task row.
func handleCreateTask(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
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

		if !guard.CheckTenantAccess(c, principal, project.TenantID, "project", projectID.String()) {
			return
		}

		var req CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		if req.AssignedTo != nil {
			ok, err := assigneeInTenant(db, *req.AssignedTo, project.TenantID)
			if err != nil {
				utils.InternalServerErrorResponse(c, "Failed to check assigned user")
				return
			}
			if !ok {
				utils.BadRequestResponse(c, "Assigned user not found in this tenant")
				return
			}
		}

		priority := models.TaskPriorityMedium
		if req.Priority != "" {
			priority = models.TaskPriority(req.Priority)
		}

		task := models.Task{
			ID:          uuid.New(),
			ProjectID:   projectID,
			TenantID:    project.TenantID,
			Title:       req.Title,
			Description: req.Description,
			Status:      models.TaskStatusTodo,
			Priority:    priority,
			AssignedTo:  req.AssignedTo,
			DueDate:     req.DueDate,
		}
		if err := db.Create(&task).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create task")
			return
		}

		audit.Record(project.TenantID, principal.UserID, models.ActionTaskCreated,
			"task", task.ID.String(), c.ClientIP(), nil)

		utils.CreatedResponse(c, "Task created successfully", gin.H{
			"id":          task.ID,
			"projectId":   task.ProjectID,
			"tenantId":    task.TenantID,
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"assignedTo":  task.AssignedTo,
			"dueDate":     task.DueDate,
			"createdAt":   task.CreatedAt,
		})
	}
}

// handleListTasks lists a project's tasks with filters and pagination
func handleListTasks(db *gorm.DB, guard *middleware.Guard) gin.HandlerFunc {
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

		if !guard.CheckTenantAccess(c, principal, project.TenantID, "project", projectID.String()) {
			return
		}

		page, limit, offset := parsePagination(c, 50)

		query := db.Model(&models.Task{}).Where("project_id = ? AND tenant_id = ?", projectID, project.TenantID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if assignedTo := c.Query("assignedTo"); assignedTo != "" {
			query = query.Where("assigned_to = ?", assignedTo)
		}
		if priority := c.Query("priority"); priority != "" {
			query = query.Where("priority = ?", priority)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("LOWER(title) LIKE ?", searchPattern(search))
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tasks")
			return
		}

		var tasks []models.Task
		if err := query.Order("priority DESC, due_date ASC").Limit(limit).Offset(offset).Find(&tasks).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch tasks")
			return
		}

		list := make([]gin.H, len(tasks))
		for i := range tasks {
			list[i] = gin.H{
				"id":          tasks[i].ID,
				"title":       tasks[i].Title,
				"description": tasks[i].Description,
				"status":      tasks[i].Status,
				"priority":    tasks[i].Priority,
				"assignedTo":  taskAssigneeSummary(db, &tasks[i]),
				"dueDate":     tasks[i].DueDate,
				"createdAt":   tasks[i].CreatedAt,
			}
		}

		utils.OKResponse(c, "Tasks retrieved successfully", gin.H{
			"tasks":      list,
			"total":      total,
			"pagination": paginationMeta(total, page, limit),
		})
	}
}

// loadTenantTask fetches a task and enforces tenant isolation. Tasks
// carry no creator reference, so tenant membership governs mutation.
func loadTenantTask(c *gin.Context, db *gorm.DB, guard *middleware.Guard, principal *models.Principal) (*models.Task, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid task ID")
		return nil, false
	}

	var task models.Task
	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "Task not found")
		} else {
			utils.InternalServerErrorResponse(c, "Failed to fetch task")
		}
		return nil, false
	}

	if !guard.CheckTenantAccess(c, principal, task.TenantID, "task", taskID.String()) {
		return nil, false
	}
	return &task, true
}

// handleUpdateTask applies a partial patch to a task
func handleUpdateTask(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		task, ok := loadTenantTask(c, db, guard, principal)
		if !ok {
			return
		}

		var req UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description.Set {
			updates["description"] = req.Description.Value
		}
		if req.Status != nil {
			if !models.ValidTaskStatus(*req.Status) {
				utils.BadRequestResponse(c, "Invalid task status")
				return
			}
			updates["status"] = *req.Status
		}
		if req.Priority != nil {
			if !models.ValidTaskPriority(*req.Priority) {
				utils.BadRequestResponse(c, "Invalid priority")
				return
			}
			updates["priority"] = *req.Priority
		}
		if req.AssignedTo.Set {
			if req.AssignedTo.Value != nil {
				ok, err := assigneeInTenant(db, *req.AssignedTo.Value, task.TenantID)
				if err != nil {
					utils.InternalServerErrorResponse(c, "Failed to check assigned user")
					return
				}
				if !ok {
					utils.BadRequestResponse(c, "Assigned user not found in this tenant")
					return
				}
			}
			updates["assigned_to"] = req.AssignedTo.Value
		}
		if req.DueDate.Set {
			updates["due_date"] = req.DueDate.Value
		}

		if len(updates) > 0 {
			if err := db.Model(task).Updates(updates).Error; err != nil {
				utils.InternalServerErrorResponse(c, "Failed to update task")
				return
			}
		}

		audit.Record(task.TenantID, principal.UserID, models.ActionTaskUpdated,
			"task", task.ID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Task updated successfully", gin.H{
			"id":          task.ID,
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"assignedTo":  taskAssigneeSummary(db, task),
			"dueDate":     task.DueDate,
			"updatedAt":   task.UpdatedAt,
		})
	}
}

// handleUpdateTaskStatus updates only the status. Setting the current
// status again is allowed and audited again; status updates are not
// deduplicated.
func handleUpdateTaskStatus(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		task, ok := loadTenantTask(c, db, guard, principal)
		if !ok {
			return
		}

		var req UpdateTaskStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		if err := db.Model(task).Update("status", req.Status).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update task status")
			return
		}

		audit.Record(task.TenantID, principal.UserID, models.ActionTaskStatusUpdated,
			"task", task.ID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Task status updated successfully", gin.H{
			"id":        task.ID,
			"status":    task.Status,
			"updatedAt": task.UpdatedAt,
		})
	}
}

// handleDeleteTask removes a task
func handleDeleteTask(db *gorm.DB, guard *middleware.Guard, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		task, ok := loadTenantTask(c, db, guard, principal)
		if !ok {
			return
		}

		if err := db.Delete(task).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete task")
			return
		}

		audit.Record(task.TenantID, principal.UserID, models.ActionTaskDeleted,
			"task", task.ID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Task deleted successfully", nil)
	}
}
