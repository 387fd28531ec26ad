package utils

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/teamtrack/teamtrack/shared/metrics"
	"github.com/teamtrack/teamtrack/shared/models"
)

// AuditRecorder appends immutable audit entries. Recording is
// fire-and-forget: a persistence failure is logged and counted on its
// own channel and never surfaces to the caller, so the triggering
// business operation cannot be converted into a failure.
type AuditRecorder struct {
	db *gorm.DB
}

// NewAuditRecorder creates an audit recorder backed by the given database
func NewAuditRecorder(db *gorm.DB) *AuditRecorder {
	return &AuditRecorder{db: db}
}

func buildEntry(tenantID, userID uuid.UUID, action models.AuditAction, entityType, entityID, ipAddress string, details interface{}) models.AuditLog {
	entry := models.AuditLog{
		ID:         uuid.New(),
		TenantID:   tenantID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ipAddress,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			s := string(raw)
			entry.Details = &s
		}
	}
	return entry
}

// Record appends one audit entry, best-effort
func (r *AuditRecorder) Record(tenantID, userID uuid.UUID, action models.AuditAction, entityType, entityID, ipAddress string, details interface{}) {
	entry := buildEntry(tenantID, userID, action, entityType, entityID, ipAddress, details)
	if err := r.db.Create(&entry).Error; err != nil {
		metrics.AuditFailures.Inc()
		logrus.WithFields(logrus.Fields{
			"action":    action,
			"tenant_id": tenantID,
			"error":     err,
		}).Error("Audit logging failed")
	}
}

// RecordInTx appends one audit entry inside an enclosing transaction
// and, unlike Record, propagates the error: tenant registration makes
// the audit row part of its all-or-nothing transaction.
func (r *AuditRecorder) RecordInTx(tx *gorm.DB, tenantID, userID uuid.UUID, action models.AuditAction, entityType, entityID, ipAddress string, details interface{}) error {
	entry := buildEntry(tenantID, userID, action, entityType, entityID, ipAddress, details)
	return tx.Create(&entry).Error
}
