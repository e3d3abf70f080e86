package util

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/ariebrainware/clinic-records/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventLoginSuccess       AuditEventType = "LOGIN_SUCCESS"
	EventLoginFailure       AuditEventType = "LOGIN_FAILURE"
	EventSignupSuccess      AuditEventType = "SIGNUP_SUCCESS"
	EventPrescriptionIssued AuditEventType = "PRESCRIPTION_ISSUED"
	EventRateLimitExceeded  AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventEndpointCall       AuditEventType = "ENDPOINT_CALL"
)

// AuditEvent represents an audit event to be logged
type AuditEvent struct {
	EventType AuditEventType
	Subject   string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var (
	auditMu     sync.RWMutex
	auditLogger = zap.NewNop()
	auditDB     *gorm.DB
)

// SetAuditLogger sets the zap logger audit events are written to.
func SetAuditLogger(logger *zap.Logger) {
	auditMu.Lock()
	defer auditMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	auditLogger = logger.Named("audit")
}

// SetAuditDB sets a gorm DB instance used to persist audit events.
// Call this during application startup after DB initialization. Passing nil
// turns persistence off.
func SetAuditDB(db *gorm.DB) {
	auditMu.Lock()
	defer auditMu.Unlock()
	auditDB = db
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogAuditEvent logs an audit event and persists it when an audit DB is set.
// Persistence is best-effort: a failed insert is logged, never returned.
func LogAuditEvent(event AuditEvent) {
	auditMu.RLock()
	logger, db := auditLogger, auditDB
	auditMu.RUnlock()

	fields := []zap.Field{
		zap.String("event", sanitizeLogValue(string(event.EventType))),
		zap.String("subject", sanitizeLogValue(event.Subject)),
		zap.String("ip", sanitizeLogValue(event.IP)),
		zap.String("user_agent", sanitizeLogValue(event.UserAgent)),
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	logger.Info(sanitizeLogValue(event.Message), fields...)

	if db == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	entry := model.AuditLog{
		EventType: string(event.EventType),
		Subject:   sanitizeLogValue(event.Subject),
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Warn("failed to persist audit event", zap.Error(err))
	}
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(subject, ip, userAgent string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginSuccess,
		Subject:   subject,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "login succeeded",
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(subject, ip, userAgent, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginFailure,
		Subject:   subject,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "login failed: " + reason,
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   "rate limit exceeded for endpoint: " + endpoint,
	})
}
