package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trim and collapse combined", input: "  John    Doe  ", expected: "John Doe"},
		{name: "already normalized", input: "John Doe", expected: "John Doe"},
		{name: "only whitespace", input: "   ", expected: ""},
		{name: "tabs and newlines", input: "John\t\nDoe", expected: "John Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", NormalizeEmail("  John@Example.COM \n"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Diabetes", "Hypertension"}, SplitList(" Diabetes , Hypertension"))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,,b, "))
	empty := SplitList("")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestErrorHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		call   func(*gin.Context, APIErrorParams)
		status int
	}{
		{CallUserError, http.StatusBadRequest},
		{CallUserNotAuthorized, http.StatusUnauthorized},
		{CallErrorNotFound, http.StatusNotFound},
		{CallConflict, http.StatusConflict},
		{CallTooManyRequests, http.StatusTooManyRequests},
		{CallServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tt.call(c, APIErrorParams{Msg: "summary", Err: fmt.Errorf("detail")})

		assert.Equal(t, tt.status, w.Code)
		var body APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "detail", body.Error)
		assert.Equal(t, "summary", body.Msg)
	}
}

func TestCallSuccessOK_NilIsNull(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	CallSuccessOK(c, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}
