// Package endpoint holds the gin handlers of the clinic API.
package endpoint

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/clinic-records/config"
	"github.com/ariebrainware/clinic-records/middleware"
	"github.com/ariebrainware/clinic-records/render"
	"github.com/ariebrainware/clinic-records/storage"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the collaborators shared by every request.
type Handler struct {
	Store    store.Store
	Uploads  storage.FileStore
	PDFs     storage.FileStore
	Renderer *render.Renderer
	Doctors  *util.DoctorNameCache
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewHandler returns a Handler with a compressing renderer, a doctor name
// cache with the default ttl and the wall clock.
func NewHandler(s store.Store, uploads, pdfs storage.FileStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    s,
		Uploads:  uploads,
		PDFs:     pdfs,
		Renderer: render.New(),
		Doctors:  util.NewDoctorNameCache(0),
		Logger:   logger,
		Now:      time.Now,
	}
}

// RegisterRoutes mounts the API on r. loginLimit guards the two login routes
// and may be nil.
func RegisterRoutes(r gin.IRouter, h *Handler, loginLimit gin.HandlerFunc) {
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if loginLimit == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{loginLimit, handler}
	}

	r.POST("/doctor/signup", h.DoctorSignup)
	r.POST("/doctor/login", guarded(h.DoctorLogin)...)
	r.GET("/doctors", h.ListDoctors)
	r.GET("/doctor/consultations/:doctorId", h.DoctorConsultations)
	r.GET("/doctor/consultations/:doctorId/export", h.ExportDoctorConsultations)

	r.POST("/patient/signup", h.PatientSignup)
	r.POST("/patient/login", guarded(h.PatientLogin)...)
	r.GET("/patient/prescriptions/:patientId", h.PatientPrescriptions)

	r.POST("/consultation", h.CreateConsultation)
	r.POST("/prescription/:consultationId", h.CreatePrescription)
}

type clientInfo struct {
	IP    string
	Agent string
}

func clientInfoOf(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// serverError logs err and answers 500 with its message.
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.Logger.Error(msg,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	util.CallServerError(c, util.APIErrorParams{Msg: msg, Err: err})
}

// clearLoginLimit resets the login rate limit counter of the caller after a
// successful login. It does nothing when Redis is not connected.
func (h *Handler) clearLoginLimit(c *gin.Context) {
	if config.GetRedisClient() == nil {
		return
	}
	if err := middleware.ResetRateLimit(c.Request.Context(), nil, c.ClientIP(), c.Request.URL.Path); err != nil {
		h.Logger.Warn("failed to reset login rate limit", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func missingFieldsError(fields []string) error {
	return fmt.Errorf("missing required fields: %s", strings.Join(fields, ", "))
}

// safeFileComponent keeps the characters that are safe in a download name.
func safeFileComponent(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, s)
}
