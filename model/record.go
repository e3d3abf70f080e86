package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorID references a Doctor by its opaque id. The reference is not enforced
// when written; it is only resolved when a handler fetches the doctor.
type DoctorID string

// ConsultationID references a Consultation by its opaque id. Like DoctorID it is
// stored as a plain string and checked only on fetch.
type ConsultationID string

// NewID returns a fresh opaque identifier for a stored entity.
func NewID() string {
	return uuid.NewString()
}

// Record carries the identity and timestamps shared by every stored entity.
type Record struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not provide one.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}

// Stamp prepares a record for insertion into stores without gorm hooks.
func (r *Record) Stamp(now time.Time) {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}
