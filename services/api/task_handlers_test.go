package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamtrack/teamtrack/shared/models"
)

func TestCreateTask(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	assignee := env.seedUser(t, tenant.ID, "v@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w := env.do(t, http.MethodPost, "/projects/"+project.ID.String()+"/tasks", env.tokenFor(t, user), map[string]interface{}{
		"title":      "Design review",
		"priority":   "high",
		"assignedTo": assignee.ID.String(),
		"dueDate":    due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := dataField(t, w)
	assert.Equal(t, "Design review", data["title"])
	assert.Equal(t, "todo", data["status"])
	assert.Equal(t, "high", data["priority"])
	assert.Equal(t, assignee.ID.String(), data["assignedTo"])
	assert.Equal(t, tenant.ID.String(), data["tenantId"])

	assert.Equal(t, int64(1), env.auditCount(t, models.ActionTaskCreated))
}

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")

	w := env.do(t, http.MethodPost, "/projects/"+project.ID.String()+"/tasks", env.tokenFor(t, user), map[string]interface{}{
		"title": "Bare task",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := dataField(t, w)
	assert.Equal(t, "todo", data["status"])
	assert.Equal(t, "medium", data["priority"])
	assert.Nil(t, data["assignedTo"])
	assert.Nil(t, data["dueDate"])
}

func TestCreateTaskAssigneeOutsideTenant(t *testing.T) {
	env := newTestEnv(t)
	acme := env.seedTenant(t, "acme", models.PlanFree)
	globex := env.seedTenant(t, "globex", models.PlanFree)
	user := env.seedUser(t, acme.ID, "u@acme.test", "password123", models.RoleUser)
	stranger := env.seedUser(t, globex.ID, "v@globex.test", "password123", models.RoleUser)
	project := env.seedProject(t, acme.ID, user.ID, "Apollo")

	w := env.do(t, http.MethodPost, "/projects/"+project.ID.String()+"/tasks", env.tokenFor(t, user), map[string]interface{}{
		"title":      "Leaky assignment",
		"assignedTo": stranger.ID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Assigned user not found in this tenant", body["message"])

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTaskCrossTenantProjectDenied(t *testing.T) {
	env := newTestEnv(t)
	acme := env.seedTenant(t, "acme", models.PlanFree)
	globex := env.seedTenant(t, "globex", models.PlanFree)
	owner := env.seedUser(t, acme.ID, "u@acme.test", "password123", models.RoleUser)
	outsider := env.seedUser(t, globex.ID, "v@globex.test", "password123", models.RoleTenantAdmin)
	project := env.seedProject(t, acme.ID, owner.ID, "Apollo")

	w := env.do(t, http.MethodPost, "/projects/"+project.ID.String()+"/tasks", env.tokenFor(t, outsider), map[string]interface{}{
		"title": "Intrusion",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(1), env.auditCount(t, models.ActionUnauthorizedAccessAttempt))
}

func TestListTasksFilters(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")

	first := env.seedTask(t, project, "Write report")
	env.seedTask(t, project, "Review report")
	done := env.seedTask(t, project, "Archive notes")
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", done.ID).
		Update("status", models.TaskStatusCompleted).Error)
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", first.ID).
		Update("assigned_to", user.ID).Error)
	token := env.tokenFor(t, user)

	base := "/projects/" + project.ID.String() + "/tasks"

	w := env.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, dataField(t, w)["total"])

	w = env.do(t, http.MethodGet, base+"?status=completed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, dataField(t, w)["total"])

	w = env.do(t, http.MethodGet, base+"?assignedTo="+user.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.EqualValues(t, 1, data["total"])
	tasks := data["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	entry := tasks[0].(map[string]interface{})
	assignee := entry["assignedTo"].(map[string]interface{})
	assert.Equal(t, user.ID.String(), assignee["id"])

	w = env.do(t, http.MethodGet, base+"?search=REPORT", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, dataField(t, w)["total"])
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	assignee := env.seedUser(t, tenant.ID, "v@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")

	w := env.do(t, http.MethodPut, "/tasks/"+task.ID.String(), env.tokenFor(t, user), map[string]interface{}{
		"title":      "Final draft",
		"status":     "in_progress",
		"priority":   "high",
		"assignedTo": assignee.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, env.db.First(&updated, "id = ?", task.ID).Error)
	assert.Equal(t, "Final draft", updated.Title)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
	assert.Equal(t, models.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee.ID, *updated.AssignedTo)

	assert.Equal(t, int64(1), env.auditCount(t, models.ActionTaskUpdated))
}

func TestUpdateTaskClearsAssignee(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", task.ID).
		Update("assigned_to", user.ID).Error)

	w := env.do(t, http.MethodPut, "/tasks/"+task.ID.String(), env.tokenFor(t, user), map[string]interface{}{
		"assignedTo": nil,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, env.db.First(&updated, "id = ?", task.ID).Error)
	assert.Nil(t, updated.AssignedTo)
}

func TestUpdateTaskInvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")

	w := env.do(t, http.MethodPut, "/tasks/"+task.ID.String(), env.tokenFor(t, user), map[string]interface{}{
		"status": "paused",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskCrossTenantDenied(t *testing.T) {
	env := newTestEnv(t)
	acme := env.seedTenant(t, "acme", models.PlanFree)
	globex := env.seedTenant(t, "globex", models.PlanFree)
	owner := env.seedUser(t, acme.ID, "u@acme.test", "password123", models.RoleUser)
	outsider := env.seedUser(t, globex.ID, "v@globex.test", "password123", models.RoleTenantAdmin)
	project := env.seedProject(t, acme.ID, owner.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")

	w := env.do(t, http.MethodPut, "/tasks/"+task.ID.String(), env.tokenFor(t, outsider), map[string]interface{}{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(1), env.auditCount(t, models.ActionUnauthorizedAccessAttempt))
}

func TestUpdateTaskStatusRepeatedlyAudited(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")
	token := env.tokenFor(t, user)

	// Setting the same status twice succeeds both times; every status
	// update writes its own audit entry.
	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPatch, "/tasks/"+task.ID.String()+"/status", token, map[string]interface{}{
			"status": "completed",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var updated models.Task
	require.NoError(t, env.db.First(&updated, "id = ?", task.ID).Error)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.Equal(t, int64(2), env.auditCount(t, models.ActionTaskStatusUpdated))
}

func TestUpdateTaskStatusRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")

	w := env.do(t, http.MethodPatch, "/tasks/"+task.ID.String()+"/status", env.tokenFor(t, user), map[string]interface{}{
		"status": "done",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)
	project := env.seedProject(t, tenant.ID, user.ID, "Apollo")
	task := env.seedTask(t, project, "Draft")

	w := env.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), env.tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, int64(1), env.auditCount(t, models.ActionTaskDeleted))
}

func TestDeleteTaskNotFound(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme", models.PlanFree)
	user := env.seedUser(t, tenant.ID, "u@acme.test", "password123", models.RoleUser)

	w := env.do(t, http.MethodDelete, "/tasks/00000000-0000-0000-0000-000000000000", env.tokenFor(t, user), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
