package model

// Consultation is a single recorded doctor-patient visit.
// PatientName is free text and is not checked against the patients table.
// @Description Consultation intake notes
type Consultation struct {
	Record         `bson:",inline"`
	DoctorID       DoctorID `json:"doctorId" gorm:"column:doctor_id;type:varchar(64);index" bson:"doctorId"`
	PatientName    string   `json:"patientName" gorm:"column:patient_name;type:varchar(191);index" bson:"patientName" example:"John Doe"`
	PatientID      string   `json:"patientId,omitempty" gorm:"column:patient_id;type:varchar(64);index" bson:"patientId,omitempty"`
	IllnessHistory string   `json:"illnessHistory" gorm:"column:illness_history;type:text" bson:"illnessHistory"`
	RecentSurgery  string   `json:"recentSurgery" gorm:"column:recent_surgery;type:text" bson:"recentSurgery"`
	DiabeticStatus string   `json:"diabeticStatus" gorm:"column:diabetic_status" bson:"diabeticStatus" example:"Type 2"`
	Allergies      string   `json:"allergies" gorm:"column:allergies;type:text" bson:"allergies" example:"Penicillin"`
	Others         string   `json:"others" gorm:"column:others;type:text" bson:"others"`
	TransactionID  string   `json:"transactionId" gorm:"column:transaction_id" bson:"transactionId"`
}
