package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog represents a persisted request or login event.
type AuditLog struct {
	gorm.Model
	EventType string         `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	Subject   string         `json:"subject" gorm:"column:subject;type:varchar(191);index"`
	IP        string         `json:"ip" gorm:"column:ip;type:varchar(45)"`
	UserAgent string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	Details   datatypes.JSON `json:"details" gorm:"column:details"`
}

// AllModels lists every table the SQL store migrates.
func AllModels() []interface{} {
	return []interface{}{
		&Doctor{},
		&Patient{},
		&Consultation{},
		&Prescription{},
		&AuditLog{},
	}
}
