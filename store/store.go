// Package store persists doctors, patients, consultations and prescriptions.
//
// Two implementations share the Store interface: GormStore for MySQL, PostgreSQL
// and SQLite, and MongoStore for MongoDB. References between entities are plain
// strings and are never checked on write.
package store

import (
	"context"
	"errors"

	"github.com/ariebrainware/clinic-records/model"
)

var (
	// ErrNotFound is returned when a lookup by id, email or credentials matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique email or phone.
	ErrConflict = errors.New("record already exists")
)

// Store is the record store used by the API layer.
type Store interface {
	Migrate(ctx context.Context) error

	CreateDoctor(ctx context.Context, doctor *model.Doctor) error
	FindDoctorByEmail(ctx context.Context, email string) (*model.Doctor, error)
	FindDoctorByID(ctx context.Context, id model.DoctorID) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]model.Doctor, error)

	CreatePatient(ctx context.Context, patient *model.Patient) error
	FindPatientByEmailOrPhone(ctx context.Context, email, phone string) (*model.Patient, error)
	FindPatientByCredentials(ctx context.Context, email, phone string) (*model.Patient, error)

	CreateConsultation(ctx context.Context, consultation *model.Consultation) error
	FindConsultationByID(ctx context.Context, id model.ConsultationID) (*model.Consultation, error)
	FindConsultationsByDoctorID(ctx context.Context, doctorID model.DoctorID) ([]model.Consultation, error)
	FindConsultationsByPatientKey(ctx context.Context, key string) ([]model.Consultation, error)

	// UpsertPrescription inserts the prescription or replaces care, medicine and
	// pdfPath of the row already stored for the same consultation, atomically.
	// On return p reflects the stored row.
	UpsertPrescription(ctx context.Context, p *model.Prescription) error
	FindPrescriptionByConsultationID(ctx context.Context, id model.ConsultationID) (*model.Prescription, error)
	FindPrescriptionsByConsultationIDs(ctx context.Context, ids []model.ConsultationID) ([]model.Prescription, error)
}

// ConsultationIDs collects the ids of the given consultations.
func ConsultationIDs(consultations []model.Consultation) []model.ConsultationID {
	ids := make([]model.ConsultationID, 0, len(consultations))
	for _, c := range consultations {
		ids = append(ids, model.ConsultationID(c.ID))
	}
	return ids
}
