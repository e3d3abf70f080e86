package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, time.May, 14, 9, 30, 0, 0, time.UTC)

func TestRender_Layout(t *testing.T) {
	r := &Renderer{}

	out, err := r.Render(Prescription{
		DoctorName: "Jane Smith",
		Care:       "Rest and hydrate",
		Medicine:   "Paracetamol",
		Date:       testDate,
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	body := string(out)
	assert.Contains(t, body, "(Dr. Jane Smith)")
	assert.Contains(t, body, "(Date: Tue May 14 2024)")
	assert.Contains(t, body, "(Care to be taken)")
	assert.Contains(t, body, "(Rest and hydrate)")
	assert.Contains(t, body, "(Medicine)")
	assert.Contains(t, body, "(Paracetamol)")
	assert.Contains(t, body, "/Count 1")
}

func TestRender_EmptyMedicineUsesDash(t *testing.T) {
	r := &Renderer{}

	for _, medicine := range []string{"", "   "} {
		out, err := r.Render(Prescription{DoctorName: "Doctor", Care: "Walk daily", Medicine: medicine, Date: testDate})
		require.NoError(t, err)
		assert.Contains(t, string(out), "(-)")
	}
}

func TestRender_LongCareStaysOnOnePage(t *testing.T) {
	r := &Renderer{}
	care := strings.Repeat("Take the tablets after meals and avoid heavy lifting. ", 200)

	out, err := r.Render(Prescription{DoctorName: "Jane", Care: care, Date: testDate})
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Count 1")
}

func TestRender_Compressed(t *testing.T) {
	out, err := New().Render(Prescription{DoctorName: "Jane", Care: "Rest", Date: testDate})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotContains(t, string(out), "(Care to be taken)")
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	a := FileName("abc-123", now)
	b := FileName("abc-123", now)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "prescription_abc-123_1700000000000_"))
	assert.True(t, strings.HasSuffix(a, ".pdf"))

	assert.NotContains(t, FileName("../../x", now), "/")
}
