package utils

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamtrack/teamtrack/shared/metrics"
	"github.com/teamtrack/teamtrack/shared/models"
)

// QuotaError reports a plan limit hit. It maps to 403.
type QuotaError struct {
	Resource string
	Limit    int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s limit (%d) reached for this tenant", e.Resource, e.Limit)
}

// IsQuotaError reports whether err is a quota denial
func IsQuotaError(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// QuotaEnforcer checks per-tenant row counts against the tenant's
// plan-derived caps before a create is allowed.
//
// The count and the subsequent insert are separate statements with no
// wrapping transaction, matching the source system: two concurrent
// creations can both pass the check when exactly one slot remains.
// Accepted limitation, not a bug.
type QuotaEnforcer struct {
	db *gorm.DB
}

// NewQuotaEnforcer creates a quota enforcer backed by the given database
func NewQuotaEnforcer(db *gorm.DB) *QuotaEnforcer {
	return &QuotaEnforcer{db: db}
}

// CheckUserQuota fails with a QuotaError when the tenant's user count
// has reached max_users. gorm.ErrRecordNotFound means the tenant is gone.
func (q *QuotaEnforcer) CheckUserQuota(tenantID uuid.UUID) error {
	var tenant models.Tenant
	if err := q.db.Select("max_users").Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return err
	}

	var count int64
	if err := q.db.Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return err
	}

	if count >= int64(tenant.MaxUsers) {
		metrics.QuotaDenials.WithLabelValues("user").Inc()
		return &QuotaError{Resource: "User", Limit: tenant.MaxUsers}
	}
	return nil
}

// CheckProjectQuota fails with a QuotaError when the tenant's project
// count has reached max_projects.
func (q *QuotaEnforcer) CheckProjectQuota(tenantID uuid.UUID) error {
	var tenant models.Tenant
	if err := q.db.Select("max_projects").Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return err
	}

	var count int64
	if err := q.db.Model(&models.Project{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return err
	}

	if count >= int64(tenant.MaxProjects) {
		metrics.QuotaDenials.WithLabelValues("project").Inc()
		return &QuotaError{Resource: "Project", Limit: tenant.MaxProjects}
	}
	return nil
}
