package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/teamtrack/teamtrack/shared/config"
	"github.com/teamtrack/teamtrack/shared/middleware"
	"github.com/teamtrack/teamtrack/shared/models"
	"github.com/teamtrack/teamtrack/shared/utils"
)

// setupRouter wires middleware, guards and handlers. Dependencies are
// built once here and injected; nothing is reached through globals.
func setupRouter(db *gorm.DB, cfg *config.AppConfig) *gin.Engine {
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	audit := utils.NewAuditRecorder(db)
	guard := middleware.NewGuard(audit)
	authMW := middleware.NewAuthMiddleware(tokens, guard)
	quota := utils.NewQuotaEnforcer(db)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(middleware.Metrics())

	router.GET("/health", handleHealth(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register-tenant", handleRegisterTenant(db, audit))
		auth.POST("/login", handleLogin(db, tokens, audit))
		auth.GET("/me", authMW.RequireAuth(), handleMe(db))
		auth.POST("/logout", authMW.RequireAuth(), handleLogout(audit))
	}

	tenants := router.Group("/tenants")
	tenants.Use(authMW.RequireAuth())
	{
		tenants.GET("", authMW.RequireRole(models.RoleSuperAdmin), handleListTenants(db))
		tenants.GET("/:id", handleGetTenant(db, guard))
		tenants.PUT("/:id", authMW.RequireRole(models.RoleTenantAdmin, models.RoleSuperAdmin), handleUpdateTenant(db, guard, audit))

		tenants.POST("/:id/users", authMW.RequireRole(models.RoleTenantAdmin, models.RoleSuperAdmin), handleCreateTenantUser(db, guard, quota, audit))
		tenants.GET("/:id/users", handleListTenantUsers(db, guard))
	}

	users := router.Group("/users")
	users.Use(authMW.RequireAuth())
	{
		users.PUT("/:id", handleUpdateUser(db, guard, audit))
		users.DELETE("/:id", authMW.RequireRole(models.RoleTenantAdmin, models.RoleSuperAdmin), handleDeleteUser(db, guard, audit))
	}

	projects := router.Group("/projects")
	projects.Use(authMW.RequireAuth())
	{
		projects.POST("", handleCreateProject(db, quota, audit))
		projects.GET("", handleListProjects(db))
		projects.PUT("/:id", handleUpdateProject(db, guard, audit))
		projects.DELETE("/:id", handleDeleteProject(db, guard, audit))

		projects.POST("/:id/tasks", handleCreateTask(db, guard, audit))
		projects.GET("/:id/tasks", handleListTasks(db, guard))
	}

	tasks := router.Group("/tasks")
	tasks.Use(authMW.RequireAuth())
	{
		tasks.PUT("/:id", handleUpdateTask(db, guard, audit))
		tasks.PATCH("/:id/status", handleUpdateTaskStatus(db, guard, audit))
		tasks.DELETE("/:id", handleDeleteTask(db, guard, audit))
	}

	return router
}

// handleHealth reports liveness and database reachability
func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(503, gin.H{
				"success":   false,
				"status":    "error",
				"database":  "disconnected",
				"timestamp": time.Now().UTC(),
			})
			return
		}

		c.JSON(200, gin.H{
			"success":   true,
			"status":    "ok",
			"database":  "connected",
			"timestamp": time.Now().UTC(),
		})
	}
}
