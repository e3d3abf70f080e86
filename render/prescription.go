// Package render draws the one-page prescription document.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// Page geometry in points. Layout coordinates below use a bottom-left origin
// and are flipped to fpdf's top-left origin when drawn.
const (
	pageWidth  = 600.0
	pageHeight = 800.0

	fontFamily = "Helvetica"
	lineHeight = 15.0
	wrapWidth  = 480.0
)

// DateLayout is how the header prints the prescription date, e.g. "Tue May 14 2024".
const DateLayout = "Mon Jan 02 2006"

// Prescription carries the text printed on the document.
type Prescription struct {
	DoctorName string
	Care       string
	Medicine   string
	Date       time.Time
}

// Renderer draws prescriptions. The zero value produces uncompressed output;
// use New for compressed page streams.
type Renderer struct {
	Compress bool
}

// New returns a Renderer with compressed page streams.
func New() *Renderer {
	return &Renderer{Compress: true}
}

type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p page) text(x, y, size float64, s string) {
	p.pdf.SetFont(fontFamily, "", size)
	p.pdf.Text(x, pageHeight-y, p.tr(s))
}

func (p page) band(y float64) {
	p.pdf.SetFillColor(0, 0, 153)
	p.pdf.Rect(0, pageHeight-y-4, pageWidth, 4, "F")
}

func (p page) box(x, y, w, h float64) {
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetLineWidth(1)
	p.pdf.Rect(x, pageHeight-y-h, w, h, "D")
}

// wrapped writes s starting with its first baseline at (x, y). Text longer than
// the surrounding box simply runs past it.
func (p page) wrapped(x, y float64, s string) {
	p.pdf.SetFont(fontFamily, "", 11)
	p.pdf.SetXY(x, pageHeight-y-lineHeight*0.75)
	p.pdf.MultiCell(wrapWidth, lineHeight, p.tr(s), "", "L", false)
}

// Render draws the prescription and returns the PDF bytes.
func (r *Renderer) Render(rx Prescription) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetCompression(r.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("clinic-records", true)
	pdf.AddPage()

	p := page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	doctor := "Dr. " + rx.DoctorName

	// header
	p.text(50, 760, 14, doctor)
	p.text(400, 760, 11, "Date: "+rx.Date.Format(DateLayout))
	p.band(705)

	p.text(50, 670, 12, "Care to be taken")
	p.box(50, 560, 500, 90)
	p.wrapped(55, 635, rx.Care)

	medicine := strings.TrimSpace(rx.Medicine)
	if medicine == "" {
		medicine = "-"
	}
	p.text(50, 520, 12, "Medicine")
	p.box(50, 400, 500, 100)
	p.wrapped(55, 475, medicine)

	// footer
	p.band(365)
	p.text(420, 335, 11, doctor)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render prescription: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns a new document name for the consultation. Every call yields
// a different name, so resubmitting never overwrites an earlier file.
func FileName(consultationID model.ConsultationID, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("prescription_%s_%d_%s.pdf", safeID(string(consultationID)), now.UnixMilli(), suffix)
}

func safeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, id)
}
