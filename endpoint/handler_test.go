package endpoint

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariebrainware/clinic-records/config"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegisterRoutes_LoginLimitGuardsLoginsOnly(t *testing.T) {
	env := setupEndpointTest(t)

	router := gin.New()
	limited := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	RegisterRoutes(router, env.handler, limited)

	assert.Equal(t, http.StatusTooManyRequests, performJSON(router, http.MethodPost, "/doctor/login", map[string]string{"email": "a"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, performJSON(router, http.MethodPost, "/patient/login", map[string]string{"email": "a"}).Code)
	assert.Equal(t, http.StatusOK, performJSON(router, http.MethodGet, "/doctors", nil).Code)
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	assert.NotNil(t, h.Logger)
	assert.NotNil(t, h.Renderer)
	assert.True(t, h.Renderer.Compress)
	assert.NotNil(t, h.Doctors)
	assert.NotNil(t, h.Now)
}

func TestSafeFileComponent(t *testing.T) {
	assert.Equal(t, "abc-1_2", safeFileComponent("abc-1_2"))
	assert.Equal(t, "etcpasswd", safeFileComponent("../etc/passwd"))
}

func postLoginFrom(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_SuccessClearsRateLimitCounter(t *testing.T) {
	env := setupEndpointTest(t)
	env.createDoctor(t, "Jane", "jane@clinic.test", "0811")
	w := performMultipart(env.router, "/patient/signup", validPatientFields(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(config.ResetRedisClientForTest)

	mock.ExpectDel("ratelimit:/doctor/login:192.0.2.1").SetVal(1)
	mock.ExpectDel("ratelimit:/patient/login:192.0.2.1").SetVal(1)

	w = postLoginFrom(env.router, "/doctor/login", `{"email":"jane@clinic.test"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = postLoginFrom(env.router, "/patient/login", `{"email":"john@example.com","phone":"0811"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_FailureKeepsRateLimitCounter(t *testing.T) {
	env := setupEndpointTest(t)
	core, logs := observer.New(zapcore.WarnLevel)
	env.handler.Logger = zap.New(core)

	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(config.ResetRedisClientForTest)

	w := postLoginFrom(env.router, "/doctor/login", `{"email":"nobody@clinic.test"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = postLoginFrom(env.router, "/patient/login", `{"email":"nobody@clinic.test","phone":"1"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// An unexpected DEL would fail against the mock and be logged.
	assert.Zero(t, logs.FilterMessage("failed to reset login rate limit").Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}
