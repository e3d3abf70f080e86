package model

// Prescription holds the care and medicine instructions of one consultation.
// At most one row exists per ConsultationID; resubmitting replaces it.
// @Description Prescription information
type Prescription struct {
	Record         `bson:",inline"`
	ConsultationID ConsultationID `json:"consultationId" gorm:"column:consultation_id;type:varchar(64);uniqueIndex;not null" bson:"consultationId"`
	Care           string         `json:"care" gorm:"column:care;type:text;not null" bson:"care" example:"Rest for three days"`
	Medicine       string         `json:"medicine" gorm:"column:medicine;type:text" bson:"medicine" example:"Paracetamol 500mg"`
	PDFPath        string         `json:"pdfPath" gorm:"column:pdf_path" bson:"pdfPath" example:"/pdfs/prescription_abc_1700000000000_1a2b3c4d.pdf"`
}
