package utils

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamtrack/teamtrack/shared/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Tenant{}, &models.User{}, &models.Project{}))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, maxUsers, maxProjects int) models.Tenant {
	t.Helper()
	tenant := models.Tenant{
		ID:               uuid.New(),
		Name:             "Acme",
		Subdomain:        "acme-" + uuid.NewString()[:8],
		Status:           models.TenantStatusActive,
		SubscriptionPlan: models.PlanFree,
		MaxUsers:         maxUsers,
		MaxProjects:      maxProjects,
	}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func TestCheckUserQuotaUnderLimit(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, 2, 3)
	enforcer := NewQuotaEnforcer(db)

	require.NoError(t, db.Create(&models.User{
		ID: uuid.New(), TenantID: tenant.ID,
		Email: "a@acme.test", PasswordHash: "x", FullName: "A", Role: models.RoleUser,
	}).Error)

	assert.NoError(t, enforcer.CheckUserQuota(tenant.ID))
}

func TestCheckUserQuotaAtLimit(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, 1, 3)
	enforcer := NewQuotaEnforcer(db)

	require.NoError(t, db.Create(&models.User{
		ID: uuid.New(), TenantID: tenant.ID,
		Email: "a@acme.test", PasswordHash: "x", FullName: "A", Role: models.RoleUser,
	}).Error)

	err := enforcer.CheckUserQuota(tenant.ID)
	require.Error(t, err)
	assert.True(t, IsQuotaError(err))
	assert.Equal(t, "User limit (1) reached for this tenant", err.Error())
}

func TestCheckProjectQuotaAtLimit(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, 5, 2)
	enforcer := NewQuotaEnforcer(db)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.Project{
			ID: uuid.New(), TenantID: tenant.ID,
			Name: "P", Status: models.ProjectStatusActive, CreatedBy: uuid.New(),
		}).Error)
	}

	err := enforcer.CheckProjectQuota(tenant.ID)
	require.Error(t, err)
	assert.True(t, IsQuotaError(err))

	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "Project", qe.Resource)
	assert.Equal(t, 2, qe.Limit)
}

func TestCheckQuotaCountsPerTenant(t *testing.T) {
	db := openTestDB(t)
	full := seedTenant(t, db, 5, 1)
	other := seedTenant(t, db, 5, 1)
	enforcer := NewQuotaEnforcer(db)

	// Filling one tenant's quota must not affect another tenant.
	require.NoError(t, db.Create(&models.Project{
		ID: uuid.New(), TenantID: full.ID,
		Name: "P", Status: models.ProjectStatusActive, CreatedBy: uuid.New(),
	}).Error)

	assert.Error(t, enforcer.CheckProjectQuota(full.ID))
	assert.NoError(t, enforcer.CheckProjectQuota(other.ID))
}

func TestCheckQuotaUnknownTenant(t *testing.T) {
	db := openTestDB(t)
	enforcer := NewQuotaEnforcer(db)

	err := enforcer.CheckUserQuota(uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.False(t, IsQuotaError(err))
}
