package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/clinic-records/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection, e.g. for the audit logger.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// isDuplicateKey reports unique violations. TranslateError covers the dialects
// that implement it; the message checks catch connections opened without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "Duplicate entry")
}

func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *GormStore) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	return wrapErr("create doctor", s.db.WithContext(ctx).Create(doctor).Error)
}

func (s *GormStore) FindDoctorByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&doctor).Error; err != nil {
		return nil, wrapErr("find doctor by email", err)
	}
	return &doctor, nil
}

func (s *GormStore) FindDoctorByID(ctx context.Context, id model.DoctorID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&doctor).Error; err != nil {
		return nil, wrapErr("find doctor", err)
	}
	return &doctor, nil
}

func (s *GormStore) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	doctors := make([]model.Doctor, 0)
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&doctors).Error; err != nil {
		return nil, wrapErr("list doctors", err)
	}
	return doctors, nil
}

func (s *GormStore) CreatePatient(ctx context.Context, patient *model.Patient) error {
	return wrapErr("create patient", s.db.WithContext(ctx).Create(patient).Error)
}

func (s *GormStore) FindPatientByEmailOrPhone(ctx context.Context, email, phone string) (*model.Patient, error) {
	var patient model.Patient
	if err := s.db.WithContext(ctx).Where("email = ? OR phone = ?", email, phone).First(&patient).Error; err != nil {
		return nil, wrapErr("find patient", err)
	}
	return &patient, nil
}

func (s *GormStore) FindPatientByCredentials(ctx context.Context, email, phone string) (*model.Patient, error) {
	var patient model.Patient
	if err := s.db.WithContext(ctx).Where("email = ? AND phone = ?", email, phone).First(&patient).Error; err != nil {
		return nil, wrapErr("find patient by credentials", err)
	}
	return &patient, nil
}

func (s *GormStore) CreateConsultation(ctx context.Context, consultation *model.Consultation) error {
	return wrapErr("create consultation", s.db.WithContext(ctx).Create(consultation).Error)
}

func (s *GormStore) FindConsultationByID(ctx context.Context, id model.ConsultationID) (*model.Consultation, error) {
	var consultation model.Consultation
	if err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&consultation).Error; err != nil {
		return nil, wrapErr("find consultation", err)
	}
	return &consultation, nil
}

func (s *GormStore) FindConsultationsByDoctorID(ctx context.Context, doctorID model.DoctorID) ([]model.Consultation, error) {
	consultations := make([]model.Consultation, 0)
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", string(doctorID)).
		Order("created_at ASC").
		Find(&consultations).Error
	if err != nil {
		return nil, wrapErr("find consultations by doctor", err)
	}
	return consultations, nil
}

func (s *GormStore) FindConsultationsByPatientKey(ctx context.Context, key string) ([]model.Consultation, error) {
	consultations := make([]model.Consultation, 0)
	err := s.db.WithContext(ctx).
		Where("patient_id = ? OR patient_name = ?", key, key).
		Order("created_at ASC").
		Find(&consultations).Error
	if err != nil {
		return nil, wrapErr("find consultations by patient", err)
	}
	return consultations, nil
}

func (s *GormStore) UpsertPrescription(ctx context.Context, p *model.Prescription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "consultation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"care", "medicine", "pdf_path", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return wrapErr("upsert prescription", err)
	}

	// The row may predate this call, so read back its id and creation time.
	stored, err := s.FindPrescriptionByConsultationID(ctx, p.ConsultationID)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

func (s *GormStore) FindPrescriptionByConsultationID(ctx context.Context, id model.ConsultationID) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := s.db.WithContext(ctx).Where("consultation_id = ?", string(id)).First(&prescription).Error; err != nil {
		return nil, wrapErr("find prescription", err)
	}
	return &prescription, nil
}

func (s *GormStore) FindPrescriptionsByConsultationIDs(ctx context.Context, ids []model.ConsultationID) ([]model.Prescription, error) {
	prescriptions := make([]model.Prescription, 0)
	if len(ids) == 0 {
		return prescriptions, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, string(id))
	}
	err := s.db.WithContext(ctx).
		Where("consultation_id IN ?", keys).
		Order("created_at ASC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, wrapErr("find prescriptions", err)
	}
	return prescriptions, nil
}
