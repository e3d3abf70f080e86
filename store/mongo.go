package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/clinic-records/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	doctorsCollection       = "doctors"
	patientsCollection      = "patients"
	consultationsCollection = "consultations"
	prescriptionsCollection = "prescriptions"
)

// MongoStore implements Store on a MongoDB database. Unique indexes created by
// Migrate enforce the email, phone and consultationId constraints.
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoStore wraps a connected database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: time.Now}
}

func (s *MongoStore) Migrate(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		doctorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		},
		patientsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		},
		consultationsCollection: {
			{Keys: bson.D{{Key: "doctorId", Value: 1}}},
			{Keys: bson.D{{Key: "patientName", Value: 1}}},
			{Keys: bson.D{{Key: "patientId", Value: 1}}},
		},
		prescriptionsCollection: {
			{Keys: bson.D{{Key: "consultationId", Value: 1}}, Options: unique},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func wrapMongoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *MongoStore) insert(ctx context.Context, collection string, record *model.Record, doc interface{}) error {
	record.Stamp(s.now())
	_, err := s.db.Collection(collection).InsertOne(ctx, doc)
	return err
}

func (s *MongoStore) findOne(ctx context.Context, collection string, filter interface{}, out interface{}) error {
	return s.db.Collection(collection).FindOne(ctx, filter).Decode(out)
}

func (s *MongoStore) findAll(ctx context.Context, collection string, filter interface{}, out interface{}) error {
	cursor, err := s.db.Collection(collection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (s *MongoStore) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	return wrapMongoErr("create doctor", s.insert(ctx, doctorsCollection, &doctor.Record, doctor))
}

func (s *MongoStore) FindDoctorByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := s.findOne(ctx, doctorsCollection, bson.M{"email": email}, &doctor); err != nil {
		return nil, wrapMongoErr("find doctor by email", err)
	}
	return &doctor, nil
}

func (s *MongoStore) FindDoctorByID(ctx context.Context, id model.DoctorID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := s.findOne(ctx, doctorsCollection, bson.M{"_id": string(id)}, &doctor); err != nil {
		return nil, wrapMongoErr("find doctor", err)
	}
	return &doctor, nil
}

func (s *MongoStore) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	doctors := make([]model.Doctor, 0)
	if err := s.findAll(ctx, doctorsCollection, bson.M{}, &doctors); err != nil {
		return nil, wrapMongoErr("list doctors", err)
	}
	return doctors, nil
}

func (s *MongoStore) CreatePatient(ctx context.Context, patient *model.Patient) error {
	if patient.IllnessHistory == nil {
		patient.IllnessHistory = []string{}
	}
	return wrapMongoErr("create patient", s.insert(ctx, patientsCollection, &patient.Record, patient))
}

func (s *MongoStore) FindPatientByEmailOrPhone(ctx context.Context, email, phone string) (*model.Patient, error) {
	var patient model.Patient
	filter := bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"phone": phone}}}
	if err := s.findOne(ctx, patientsCollection, filter, &patient); err != nil {
		return nil, wrapMongoErr("find patient", err)
	}
	return &patient, nil
}

func (s *MongoStore) FindPatientByCredentials(ctx context.Context, email, phone string) (*model.Patient, error) {
	var patient model.Patient
	if err := s.findOne(ctx, patientsCollection, bson.M{"email": email, "phone": phone}, &patient); err != nil {
		return nil, wrapMongoErr("find patient by credentials", err)
	}
	return &patient, nil
}

func (s *MongoStore) CreateConsultation(ctx context.Context, consultation *model.Consultation) error {
	return wrapMongoErr("create consultation", s.insert(ctx, consultationsCollection, &consultation.Record, consultation))
}

func (s *MongoStore) FindConsultationByID(ctx context.Context, id model.ConsultationID) (*model.Consultation, error) {
	var consultation model.Consultation
	if err := s.findOne(ctx, consultationsCollection, bson.M{"_id": string(id)}, &consultation); err != nil {
		return nil, wrapMongoErr("find consultation", err)
	}
	return &consultation, nil
}

func (s *MongoStore) FindConsultationsByDoctorID(ctx context.Context, doctorID model.DoctorID) ([]model.Consultation, error) {
	consultations := make([]model.Consultation, 0)
	if err := s.findAll(ctx, consultationsCollection, bson.M{"doctorId": string(doctorID)}, &consultations); err != nil {
		return nil, wrapMongoErr("find consultations by doctor", err)
	}
	return consultations, nil
}

func (s *MongoStore) FindConsultationsByPatientKey(ctx context.Context, key string) ([]model.Consultation, error) {
	consultations := make([]model.Consultation, 0)
	filter := bson.M{"$or": bson.A{bson.M{"patientId": key}, bson.M{"patientName": key}}}
	if err := s.findAll(ctx, consultationsCollection, filter, &consultations); err != nil {
		return nil, wrapMongoErr("find consultations by patient", err)
	}
	return consultations, nil
}

func (s *MongoStore) UpsertPrescription(ctx context.Context, p *model.Prescription) error {
	now := s.now()
	filter := bson.M{"consultationId": string(p.ConsultationID)}
	update := bson.M{
		"$set": bson.M{
			"care":      p.Care,
			"medicine":  p.Medicine,
			"pdfPath":   p.PDFPath,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       model.NewID(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.Prescription
	err := s.db.Collection(prescriptionsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		return wrapMongoErr("upsert prescription", err)
	}
	*p = stored
	return nil
}

func (s *MongoStore) FindPrescriptionByConsultationID(ctx context.Context, id model.ConsultationID) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := s.findOne(ctx, prescriptionsCollection, bson.M{"consultationId": string(id)}, &prescription); err != nil {
		return nil, wrapMongoErr("find prescription", err)
	}
	return &prescription, nil
}

func (s *MongoStore) FindPrescriptionsByConsultationIDs(ctx context.Context, ids []model.ConsultationID) ([]model.Prescription, error) {
	prescriptions := make([]model.Prescription, 0)
	if len(ids) == 0 {
		return prescriptions, nil
	}

	keys := make(bson.A, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, string(id))
	}
	if err := s.findAll(ctx, prescriptionsCollection, bson.M{"consultationId": bson.M{"$in": keys}}, &prescriptions); err != nil {
		return nil, wrapMongoErr("find prescriptions", err)
	}
	return prescriptions, nil
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MongoStore)(nil)
)
