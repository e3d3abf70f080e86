package endpoint

import (
	"errors"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
)

type DoctorSignupRequest struct {
	Name       string `json:"name" example:"Jane Smith"`
	Specialty  string `json:"specialty" example:"Cardiology"`
	Email      string `json:"email" example:"jane@clinic.test"`
	Phone      string `json:"phone" example:"081234567890"`
	Experience int    `json:"experience" example:"12"`
}

type DoctorLoginRequest struct {
	Email string `json:"email" example:"jane@clinic.test"`
}

// DoctorSignup godoc
// @Summary      Register a doctor
// @Description  Create a doctor. Email and phone must be unique; a duplicate is reported as a server error.
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        request body DoctorSignupRequest true "Doctor details"
// @Success      200 {object} model.Doctor "Doctor created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor/signup [post]
func (h *Handler) DoctorSignup(c *gin.Context) {
	var req DoctorSignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	doctor := model.Doctor{
		Name:       req.Name,
		Specialty:  req.Specialty,
		Email:      req.Email,
		Phone:      req.Phone,
		Experience: req.Experience,
	}
	if err := h.Store.CreateDoctor(c.Request.Context(), &doctor); err != nil {
		h.serverError(c, "Failed to create doctor", err)
		return
	}

	ci := clientInfoOf(c)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventSignupSuccess,
		Subject:   doctor.Email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "doctor registered",
	})
	util.CallSuccessOK(c, doctor)
}

// DoctorLogin godoc
// @Summary      Doctor login
// @Description  Look up a doctor by email. Answers null when no doctor matches.
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        request body DoctorLoginRequest true "Doctor email"
// @Success      200 {object} model.Doctor "Doctor, or null"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor/login [post]
func (h *Handler) DoctorLogin(c *gin.Context) {
	var req DoctorLoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	ci := clientInfoOf(c)
	doctor, err := h.Store.FindDoctorByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		util.LogLoginFailure(req.Email, ci.IP, ci.Agent, "doctor not found")
		util.CallSuccessOK(c, nil)
		return
	}
	if err != nil {
		h.serverError(c, "Failed to find doctor", err)
		return
	}

	util.LogLoginSuccess(doctor.Email, ci.IP, ci.Agent)
	h.clearLoginLimit(c)
	util.CallSuccessOK(c, doctor)
}

// ListDoctors godoc
// @Summary      List doctors
// @Description  Get every registered doctor
// @Tags         Doctor
// @Produce      json
// @Success      200 {array} model.Doctor "Doctors"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctors [get]
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Store.ListDoctors(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to retrieve doctors", err)
		return
	}
	util.CallSuccessOK(c, doctors)
}
