// Package report builds spreadsheet exports of clinic records.
package report

import (
	"bytes"
	"fmt"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/xuri/excelize/v2"
)

// ConsultationsSheet is the name of the single worksheet in the export.
const ConsultationsSheet = "Consultations"

// ConsultationsHeader lists the export columns in order.
var ConsultationsHeader = []string{
	"Consultation ID",
	"Date",
	"Patient Name",
	"Patient ID",
	"Illness History",
	"Recent Surgery",
	"Diabetic Status",
	"Allergies",
	"Others",
	"Transaction ID",
	"Care",
	"Medicine",
	"Prescription PDF",
}

var columnWidths = []float64{38, 20, 25, 38, 30, 25, 15, 20, 25, 20, 35, 35, 45}

const timeLayout = "2006-01-02 15:04:05"

// ConsultationsWorkbook renders consultations as an XLSX workbook. Each row is
// joined with the prescription of its consultation, when one exists.
func ConsultationsWorkbook(consultations []model.Consultation, prescriptions []model.Prescription) ([]byte, error) {
	byConsultation := make(map[model.ConsultationID]model.Prescription, len(prescriptions))
	for _, p := range prescriptions {
		byConsultation[p.ConsultationID] = p
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ConsultationsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(ConsultationsHeader))
	for i, h := range ConsultationsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ConsultationsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(ConsultationsHeader))
	if err != nil {
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(ConsultationsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(ConsultationsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, c := range consultations {
		p := byConsultation[model.ConsultationID(c.ID)]
		row := []interface{}{
			c.ID,
			c.CreatedAt.Format(timeLayout),
			c.PatientName,
			c.PatientID,
			c.IllnessHistory,
			c.RecentSurgery,
			c.DiabeticStatus,
			c.Allergies,
			c.Others,
			c.TransactionID,
			p.Care,
			p.Medicine,
			p.PDFPath,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(ConsultationsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(ConsultationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
