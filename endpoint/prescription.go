package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/ariebrainware/clinic-records/render"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultDoctorName is printed when the consultation's doctor cannot be found.
const defaultDoctorName = "Doctor"

type PrescriptionRequest struct {
	Care     string `json:"care" example:"Rest for three days, drink plenty of water"`
	Medicine string `json:"medicine" example:"Paracetamol 500mg three times a day"`
}

type PrescriptionResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Prescription generated successfully"`
	PDFURL  string `json:"pdfUrl" example:"/pdfs/prescription_abc_1700000000000_1a2b3c4d.pdf"`
}

// doctorName resolves the name printed on the prescription.
func (h *Handler) doctorName(c *gin.Context, id model.DoctorID) (string, error) {
	var (
		name string
		err  error
	)
	if h.Doctors != nil {
		name, err = h.Doctors.Name(c.Request.Context(), h.Store, id)
	} else {
		var doctor *model.Doctor
		if doctor, err = h.Store.FindDoctorByID(c.Request.Context(), id); err == nil {
			name = doctor.Name
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return defaultDoctorName, nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return defaultDoctorName, nil
	}
	return name, nil
}

// CreatePrescription godoc
// @Summary      Issue a prescription
// @Description  Render the prescription PDF of a consultation and store it. Resubmitting replaces the stored care, medicine and PDF link; earlier PDF files are kept.
// @Tags         Prescription
// @Accept       json
// @Produce      json
// @Param        consultationId path string true "Consultation id"
// @Param        request body PrescriptionRequest true "Care and medicine"
// @Success      200 {object} PrescriptionResponse "Prescription generated"
// @Failure      400 {object} util.APIResponse "Care is required"
// @Failure      404 {object} util.APIResponse "Consultation not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /prescription/{consultationId} [post]
func (h *Handler) CreatePrescription(c *gin.Context) {
	var req PrescriptionRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if strings.TrimSpace(req.Care) == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Care is required",
			Err: fmt.Errorf("care must not be blank"),
		})
		return
	}

	ctx := c.Request.Context()
	consultationID := model.ConsultationID(c.Param("consultationId"))
	consultation, err := h.Store.FindConsultationByID(ctx, consultationID)
	if errors.Is(err, store.ErrNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Consultation not found", Err: err})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to find consultation", err)
		return
	}

	name, err := h.doctorName(c, consultation.DoctorID)
	if err != nil {
		h.serverError(c, "Failed to find doctor", err)
		return
	}

	now := h.now()
	doc, err := h.Renderer.Render(render.Prescription{
		DoctorName: name,
		Care:       req.Care,
		Medicine:   req.Medicine,
		Date:       now,
	})
	if err != nil {
		h.serverError(c, "Failed to render prescription", err)
		return
	}

	pdfPath, err := h.PDFs.Save(ctx, render.FileName(consultationID, now), doc)
	if err != nil {
		h.serverError(c, "Failed to save prescription", err)
		return
	}

	prescription := model.Prescription{
		ConsultationID: consultationID,
		Care:           req.Care,
		Medicine:       req.Medicine,
		PDFPath:        pdfPath,
	}
	if err := h.Store.UpsertPrescription(ctx, &prescription); err != nil {
		h.serverError(c, "Failed to store prescription", err)
		return
	}

	h.Logger.Info("prescription issued",
		zap.String("consultation_id", string(consultationID)),
		zap.String("pdf_path", pdfPath),
	)
	ci := clientInfoOf(c)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventPrescriptionIssued,
		Subject:   string(consultationID),
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "prescription issued",
		Details:   map[string]interface{}{"pdf_path": pdfPath},
	})
	util.CallSuccessOK(c, PrescriptionResponse{
		Success: true,
		Message: "Prescription generated successfully",
		PDFURL:  pdfPath,
	})
}
