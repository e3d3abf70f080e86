package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/ariebrainware/clinic-records/render"
	"github.com/ariebrainware/clinic-records/storage"
	"github.com/ariebrainware/clinic-records/store"
	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, time.May, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	router  *gin.Engine
	handler *Handler
	store   *store.GormStore
	uploads *storage.MemoryStore
	pdfs    *storage.MemoryStore
}

// setupEndpointTest wires a Handler to a fresh in-memory SQLite store and
// in-memory file stores, with an uncompressed renderer and a fixed clock.
func setupEndpointTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:endpointdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.NewGormStore(db)
	require.NoError(t, s.Migrate(context.Background()))

	env := &testEnv{
		store:   s,
		uploads: storage.NewMemoryStore("/uploads"),
		pdfs:    storage.NewMemoryStore("/pdfs"),
	}
	env.handler = NewHandler(s, env.uploads, env.pdfs, nil)
	env.handler.Renderer = &render.Renderer{}
	env.handler.Doctors = util.NewDoctorNameCache(time.Minute)
	env.handler.Now = func() time.Time { return testNow }

	env.router = gin.New()
	RegisterRoutes(env.router, env.handler, nil)
	return env
}

func (e *testEnv) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.store.DB().Model(m).Count(&n).Error)
	return n
}

func (e *testEnv) createDoctor(t *testing.T, name, email, phone string) model.Doctor {
	t.Helper()
	doctor := model.Doctor{Name: name, Specialty: "General", Email: email, Phone: phone, Experience: 5}
	require.NoError(t, e.store.CreateDoctor(context.Background(), &doctor))
	return doctor
}

func (e *testEnv) createConsultation(t *testing.T, c model.Consultation) model.Consultation {
	t.Helper()
	require.NoError(t, e.store.CreateConsultation(context.Background(), &c))
	return c
}

func performJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *strings.Reader
	switch v := body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(v)
	default:
		b, _ := json.Marshal(v)
		reader = strings.NewReader(string(b))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type uploadFile struct {
	field    string
	name     string
	contents []byte
}

func performMultipart(r http.Handler, path string, fields map[string]string, file *uploadFile) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if file != nil {
		fw, _ := mw.CreateFormFile(file.field, file.name)
		_, _ = fw.Write(file.contents)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
