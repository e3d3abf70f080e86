package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestConsultationsWorkbook(t *testing.T) {
	created := time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)
	consultations := []model.Consultation{
		{Record: model.Record{ID: "c-1", CreatedAt: created}, DoctorID: "d-1", PatientName: "John Doe", Allergies: "Penicillin"},
		{Record: model.Record{ID: "c-2", CreatedAt: created.Add(time.Hour)}, DoctorID: "d-1", PatientName: "Mary Major"},
	}
	prescriptions := []model.Prescription{
		{ConsultationID: "c-1", Care: "Rest", Medicine: "Paracetamol", PDFPath: "/pdfs/p.pdf"},
	}

	data, err := ConsultationsWorkbook(consultations, prescriptions)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ConsultationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ConsultationsHeader, rows[0])

	assert.Equal(t, "c-1", rows[1][0])
	assert.Equal(t, "2024-05-14 09:30:00", rows[1][1])
	assert.Equal(t, "John Doe", rows[1][2])
	assert.Equal(t, "Penicillin", rows[1][7])
	assert.Equal(t, "Rest", rows[1][10])
	assert.Equal(t, "Paracetamol", rows[1][11])
	assert.Equal(t, "/pdfs/p.pdf", rows[1][12])

	assert.Equal(t, "c-2", rows[2][0])
	assert.Equal(t, "Mary Major", rows[2][2])
}

func TestConsultationsWorkbook_Empty(t *testing.T) {
	data, err := ConsultationsWorkbook(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ConsultationsSheet}, f.GetSheetList())
	rows, err := f.GetRows(ConsultationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
