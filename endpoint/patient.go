package endpoint

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/ariebrainware/clinic-records/storage"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
)

const profileImageField = "profileImage"

// errInvalidAge marks a signup whose age is present but not a number.
var errInvalidAge = errors.New("age must be a number")

type PatientLoginRequest struct {
	Email string `json:"email" example:"john@example.com"`
	Phone string `json:"phone" example:"081234567890"`
}

type patientSignupForm struct {
	Name           string
	Age            int
	Email          string
	Phone          string
	SurgeryHistory string
	IllnessHistory []string
}

// parsePatientSignupForm reads the multipart fields and reports a validation
// error for missing name, email or phone and for a non-numeric age.
func parsePatientSignupForm(c *gin.Context) (patientSignupForm, error) {
	form := patientSignupForm{
		Name:           util.NormalizeName(c.PostForm("name")),
		Email:          util.NormalizeEmail(c.PostForm("email")),
		Phone:          strings.TrimSpace(c.PostForm("phone")),
		SurgeryHistory: c.PostForm("surgeryHistory"),
		IllnessHistory: util.SplitList(c.PostForm("illnessHistory")),
	}

	var missing []string
	if form.Name == "" {
		missing = append(missing, "name")
	}
	if form.Email == "" {
		missing = append(missing, "email")
	}
	if form.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return form, missingFieldsError(missing)
	}

	if raw := strings.TrimSpace(c.PostForm("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return form, errInvalidAge
		}
		form.Age = age
	}
	return form, nil
}

// saveProfileImage stores the optional profile image and returns its public
// path, or "" when none was sent.
func (h *Handler) saveProfileImage(c *gin.Context) (string, error) {
	header, err := c.FormFile(profileImageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return h.Uploads.Save(c.Request.Context(), storage.UploadName(header.Filename, h.now()), data)
}

// PatientSignup godoc
// @Summary      Register a patient
// @Description  Create a patient from a multipart form with an optional profile image
// @Tags         Patient
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "Full name"
// @Param        age formData int false "Age"
// @Param        email formData string true "Email, stored lower-cased"
// @Param        phone formData string true "Phone number"
// @Param        surgeryHistory formData string false "Surgery history"
// @Param        illnessHistory formData string false "Comma separated illnesses"
// @Param        profileImage formData file false "Profile image"
// @Success      200 {object} model.Patient "Patient created"
// @Failure      400 {object} util.APIResponse "Missing required fields"
// @Failure      409 {object} util.APIResponse "Email or phone already registered"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/signup [post]
func (h *Handler) PatientSignup(c *gin.Context) {
	form, err := parsePatientSignupForm(c)
	if err != nil {
		msg := "Missing required fields"
		if errors.Is(err, errInvalidAge) {
			msg = "Invalid request payload"
		}
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return
	}

	ctx := c.Request.Context()
	_, err = h.Store.FindPatientByEmailOrPhone(ctx, form.Email, form.Phone)
	switch {
	case err == nil:
		util.CallConflict(c, util.APIErrorParams{
			Msg: "Email or phone already registered",
			Err: store.ErrConflict,
		})
		return
	case !errors.Is(err, store.ErrNotFound):
		h.serverError(c, "Failed to check patient", err)
		return
	}

	profileImage, err := h.saveProfileImage(c)
	if err != nil {
		h.serverError(c, "Failed to save profile image", err)
		return
	}

	patient := model.Patient{
		Name:           form.Name,
		Age:            form.Age,
		Email:          form.Email,
		Phone:          form.Phone,
		SurgeryHistory: form.SurgeryHistory,
		IllnessHistory: form.IllnessHistory,
		ProfileImage:   profileImage,
	}
	if err := h.Store.CreatePatient(ctx, &patient); err != nil {
		if errors.Is(err, store.ErrConflict) {
			util.CallConflict(c, util.APIErrorParams{Msg: "Email or phone already registered", Err: err})
			return
		}
		h.serverError(c, "Failed to create patient", err)
		return
	}

	ci := clientInfoOf(c)
	util.LogAuditEvent(util.AuditEvent{
		EventType: util.EventSignupSuccess,
		Subject:   patient.Email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "patient registered",
	})
	util.CallSuccessOK(c, patient)
}

// PatientLogin godoc
// @Summary      Patient login
// @Description  Match a patient by email (case-insensitive) and phone (surrounding spaces ignored)
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        request body PatientLoginRequest true "Patient credentials"
// @Success      200 {object} model.Patient "Patient"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid credentials"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/login [post]
func (h *Handler) PatientLogin(c *gin.Context) {
	var req PatientLoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	email := util.NormalizeEmail(req.Email)
	ci := clientInfoOf(c)
	patient, err := h.Store.FindPatientByCredentials(c.Request.Context(), email, strings.TrimSpace(req.Phone))
	if errors.Is(err, store.ErrNotFound) {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "invalid credentials")
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid credentials",
			Err: fmt.Errorf("no patient matches email and phone"),
		})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to find patient", err)
		return
	}

	util.LogLoginSuccess(patient.Email, ci.IP, ci.Agent)
	h.clearLoginLimit(c)
	util.CallSuccessOK(c, patient)
}

// PatientPrescriptions godoc
// @Summary      List a patient's prescriptions
// @Description  Get the prescriptions of every consultation recorded under the given patient id or patient name
// @Tags         Patient
// @Produce      json
// @Param        patientId path string true "Patient id or name"
// @Success      200 {array} model.Prescription "Prescriptions"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/prescriptions/{patientId} [get]
func (h *Handler) PatientPrescriptions(c *gin.Context) {
	ctx := c.Request.Context()
	consultations, err := h.Store.FindConsultationsByPatientKey(ctx, c.Param("patientId"))
	if err != nil {
		h.serverError(c, "Failed to retrieve consultations", err)
		return
	}
	if len(consultations) == 0 {
		util.CallSuccessOK(c, []model.Prescription{})
		return
	}

	prescriptions, err := h.Store.FindPrescriptionsByConsultationIDs(ctx, store.ConsultationIDs(consultations))
	if err != nil {
		h.serverError(c, "Failed to retrieve prescriptions", err)
		return
	}
	util.CallSuccessOK(c, prescriptions)
}
