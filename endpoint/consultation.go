package endpoint

import (
	"fmt"
	"net/http"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/ariebrainware/clinic-records/report"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ConsultationRequest struct {
	DoctorID       model.DoctorID `json:"doctorId" example:"5f0c2d8e-6a1b-4c7e-9d2f-3b4a5c6d7e8f"`
	PatientName    string         `json:"patientName" example:"John Doe"`
	PatientID      string         `json:"patientId" example:"9a8b7c6d-5e4f-4a3b-2c1d-0e9f8a7b6c5d"`
	IllnessHistory string         `json:"illnessHistory" example:"Hypertension"`
	RecentSurgery  string         `json:"recentSurgery" example:"None"`
	DiabeticStatus string         `json:"diabeticStatus" example:"Type 2"`
	Allergies      string         `json:"allergies" example:"Penicillin"`
	Others         string         `json:"others"`
	TransactionID  string         `json:"transactionId" example:"TXN-0001"`
}

// CreateConsultation godoc
// @Summary      Record a consultation
// @Description  Store the intake notes of a doctor-patient visit. References are not checked.
// @Tags         Consultation
// @Accept       json
// @Produce      json
// @Param        request body ConsultationRequest true "Consultation details"
// @Success      200 {object} model.Consultation "Consultation created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /consultation [post]
func (h *Handler) CreateConsultation(c *gin.Context) {
	var req ConsultationRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	consultation := model.Consultation{
		DoctorID:       req.DoctorID,
		PatientName:    req.PatientName,
		PatientID:      req.PatientID,
		IllnessHistory: req.IllnessHistory,
		RecentSurgery:  req.RecentSurgery,
		DiabeticStatus: req.DiabeticStatus,
		Allergies:      req.Allergies,
		Others:         req.Others,
		TransactionID:  req.TransactionID,
	}
	if err := h.Store.CreateConsultation(c.Request.Context(), &consultation); err != nil {
		h.serverError(c, "Failed to create consultation", err)
		return
	}
	util.CallSuccessOK(c, consultation)
}

// DoctorConsultations godoc
// @Summary      List a doctor's consultations
// @Description  Get every consultation recorded for the doctor, oldest first
// @Tags         Doctor
// @Produce      json
// @Param        doctorId path string true "Doctor id"
// @Success      200 {array} model.Consultation "Consultations"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor/consultations/{doctorId} [get]
func (h *Handler) DoctorConsultations(c *gin.Context) {
	consultations, err := h.Store.FindConsultationsByDoctorID(c.Request.Context(), model.DoctorID(c.Param("doctorId")))
	if err != nil {
		h.serverError(c, "Failed to retrieve consultations", err)
		return
	}
	util.CallSuccessOK(c, consultations)
}

// ExportDoctorConsultations godoc
// @Summary      Export a doctor's consultations
// @Description  Download the doctor's consultations, joined with their prescriptions, as an XLSX workbook
// @Tags         Doctor
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        doctorId path string true "Doctor id"
// @Success      200 {file} file "Workbook"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor/consultations/{doctorId}/export [get]
func (h *Handler) ExportDoctorConsultations(c *gin.Context) {
	ctx := c.Request.Context()
	doctorID := model.DoctorID(c.Param("doctorId"))

	consultations, err := h.Store.FindConsultationsByDoctorID(ctx, doctorID)
	if err != nil {
		h.serverError(c, "Failed to retrieve consultations", err)
		return
	}
	prescriptions, err := h.Store.FindPrescriptionsByConsultationIDs(ctx, store.ConsultationIDs(consultations))
	if err != nil {
		h.serverError(c, "Failed to retrieve prescriptions", err)
		return
	}

	data, err := report.ConsultationsWorkbook(consultations, prescriptions)
	if err != nil {
		h.serverError(c, "Failed to build export", err)
		return
	}

	fileName := fmt.Sprintf("consultations_%s_%s.xlsx", safeFileComponent(string(doctorID)), h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, xlsxContentType, data)
}
