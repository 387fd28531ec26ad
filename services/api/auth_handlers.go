package main

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamtrack/teamtrack/shared/middleware"
	"github.com/teamtrack/teamtrack/shared/models"
	"github.com/teamtrack/teamtrack/shared/utils"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// RegisterTenantRequest represents the tenant registration request
type RegisterTenantRequest struct {
	TenantName    string `json:"tenantName" binding:"required,min=2,max=255"`
	Subdomain     string `json:"subdomain" binding:"required"`
	AdminEmail    string `json:"adminEmail" binding:"required,email"`
	AdminPassword string `json:"adminPassword" binding:"required,min=8"`
	AdminFullName string `json:"adminFullName" binding:"required,min=2,max=255"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	TenantSubdomain string `json:"tenantSubdomain" binding:"required"`
}

// handleRegisterTenant creates a tenant together with its first admin
// user and the TENANT_CREATED audit entry in a single transaction; no
// partial tenant is ever visible. The response carries no token, the
// client logs in separately.
func handleRegisterTenant(db *gorm.DB, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterTenantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		if !subdomainPattern.MatchString(req.Subdomain) {
			utils.BadRequestResponse(c, "Subdomain can only contain lowercase letters, numbers, and hyphens")
			return
		}

		var existing models.Tenant
		if err := db.Where("subdomain = ?", req.Subdomain).First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "Subdomain already exists")
			return
		}

		var existingUser models.User
		if err := db.Where("email = ?", req.AdminEmail).First(&existingUser).Error; err == nil {
			utils.ConflictResponse(c, "Email already registered")
			return
		}

		passwordHash, err := utils.HashPassword(req.AdminPassword)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to complete registration")
			return
		}

		limits := models.DefaultPlanLimits[models.PlanFree]
		tenant := models.Tenant{
			ID:               uuid.New(),
			Name:             req.TenantName,
			Subdomain:        req.Subdomain,
			Status:           models.TenantStatusActive,
			SubscriptionPlan: models.PlanFree,
			MaxUsers:         limits.MaxUsers,
			MaxProjects:      limits.MaxProjects,
		}
		admin := models.User{
			ID:           uuid.New(),
			TenantID:     tenant.ID,
			Email:        req.AdminEmail,
			PasswordHash: passwordHash,
			FullName:     req.AdminFullName,
			Role:         models.RoleTenantAdmin,
			IsActive:     true,
		}

		clientIP := c.ClientIP()
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&tenant).Error; err != nil {
				return err
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			return audit.RecordInTx(tx, tenant.ID, admin.ID, models.ActionTenantCreated,
				"tenant", tenant.ID.String(), clientIP, nil)
		})
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to complete registration")
			return
		}

		utils.CreatedResponse(c, "Tenant registered successfully", gin.H{
			"tenantId":  tenant.ID,
			"subdomain": tenant.Subdomain,
			"adminUser": gin.H{
				"id":       admin.ID,
				"email":    admin.Email,
				"fullName": admin.FullName,
				"role":     admin.Role,
			},
		})
	}
}

// handleLogin authenticates a user within a tenant subdomain.
// Credentials are tenant-scoped: the same email under a different
// subdomain is a different account.
func handleLogin(db *gorm.DB, tokens *utils.TokenService, audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ValidationErrorResponse(c, err.Error())
			return
		}

		var tenant models.Tenant
		if err := db.Where("subdomain = ?", req.TenantSubdomain).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Tenant not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to look up tenant")
			}
			return
		}

		if !tenant.IsActive() {
			utils.ForbiddenResponse(c, "Tenant is not active")
			return
		}

		var user models.User
		if err := db.Where("email = ? AND tenant_id = ?", req.Email, tenant.ID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.UnauthorizedResponse(c, "Invalid credentials")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to look up user")
			}
			return
		}

		if !user.IsActive {
			utils.ForbiddenResponse(c, "Account is inactive")
			return
		}

		if !utils.VerifyPassword(req.Password, user.PasswordHash) {
			utils.UnauthorizedResponse(c, "Invalid credentials")
			return
		}

		token, err := tokens.IssueToken(user.ID, tenant.ID, user.Role)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to issue token")
			return
		}

		audit.Record(tenant.ID, user.ID, models.ActionUserLogin, "user", user.ID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Login successful", gin.H{
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"fullName": user.FullName,
				"role":     user.Role,
				"tenantId": tenant.ID,
			},
			"token":     token,
			"expiresIn": int64(tokens.Expiry().Seconds()),
		})
	}
}

// handleMe returns the current user and tenant summary
func handleMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		var user models.User
		if err := db.Where("id = ?", principal.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "User not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch user")
			}
			return
		}

		data := gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullName": user.FullName,
			"role":     user.Role,
			"isActive": user.IsActive,
			"tenant":   nil,
		}

		var tenant models.Tenant
		if err := db.Where("id = ?", principal.TenantID).First(&tenant).Error; err == nil {
			data["tenant"] = gin.H{
				"id":               tenant.ID,
				"name":             tenant.Name,
				"subdomain":        tenant.Subdomain,
				"subscriptionPlan": tenant.SubscriptionPlan,
				"maxUsers":         tenant.MaxUsers,
				"maxProjects":      tenant.MaxProjects,
			}
		}

		utils.OKResponse(c, "Current user retrieved", data)
	}
}

// handleLogout records the logout; token invalidation is client-side,
// there is no server-side revocation list.
func handleLogout(audit *utils.AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := middleware.GetPrincipal(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Authentication required")
			return
		}

		audit.Record(principal.TenantID, principal.UserID, models.ActionUserLogout,
			"user", principal.UserID.String(), c.ClientIP(), nil)

		utils.OKResponse(c, "Logged out successfully", nil)
	}
}
