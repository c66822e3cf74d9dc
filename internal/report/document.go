package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	"ChartSentinel/internal/customerrors"
)

const (
	// PageMargin is the blank border around every page, in millimetres.
	PageMargin = 10.0
	// HeaderHeight is the band reserved for the page header, in millimetres.
	HeaderHeight = 12.0
)

// Document is a landscape A4 PDF with one chart (or failure note) per page.
type Document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	title string
	pages int
	seq   int
}

// NewDocument starts an empty document.
func NewDocument(title string) *Document {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(PageMargin, PageMargin, PageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("ChartSentinel", true)
	return &Document{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		title: title,
	}
}

// Pages returns the number of pages added so far.
func (d *Document) Pages() int { return d.pages }

// FitImage scales an imgW x imgH image into the page area below the header,
// preserving aspect ratio, and centres it. All values share one unit except
// imgW/imgH, which only contribute their ratio.
func FitImage(pageW, pageH, margin, header, imgW, imgH float64) (x, y, w, h float64) {
	availW := pageW - 2*margin
	availH := pageH - 2*margin - header
	if imgW <= 0 || imgH <= 0 || availW <= 0 || availH <= 0 {
		return margin, margin + header, 0, 0
	}
	scale := availW / imgW
	if s := availH / imgH; s < scale {
		scale = s
	}
	w, h = imgW*scale, imgH*scale
	x = (pageW - w) / 2
	y = margin + header + (availH-h)/2
	return x, y, w, h
}

func (d *Document) addHeaderPage(header string) {
	d.pdf.AddPage()
	d.pages++
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetXY(PageMargin, PageMargin)
	pageW, _ := d.pdf.GetPageSize()
	d.pdf.CellFormat(pageW-2*PageMargin, HeaderHeight-2, d.tr(header), "B", 0, "L", false, 0, "")
}

// AddImagePage appends a page with header text above a PNG image.
func (d *Document) AddImagePage(header string, pngData []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return fmt.Errorf("decode chart image: %v: %w", err, customerrors.ErrRender)
	}

	d.addHeaderPage(header)
	d.seq++
	name := fmt.Sprintf("chart-%d", d.seq)
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(pngData))

	pageW, pageH := d.pdf.GetPageSize()
	x, y, w, h := FitImage(pageW, pageH, PageMargin, HeaderHeight, float64(cfg.Width), float64(cfg.Height))
	d.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if d.pdf.Err() {
		return fmt.Errorf("add page %q: %v: %w", header, d.pdf.Error(), customerrors.ErrRender)
	}
	return nil
}

// AddFailurePage appends a text-only page explaining why an entry has no chart.
func (d *Document) AddFailurePage(header, message string) {
	d.addHeaderPage(header)
	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.SetTextColor(180, 30, 30)
	pageW, _ := d.pdf.GetPageSize()
	d.pdf.SetXY(PageMargin, PageMargin+HeaderHeight+4)
	d.pdf.MultiCell(pageW-2*PageMargin, 7, d.tr(message), "", "L", false)
}

// Bytes finalises the document and returns the encoded PDF.
func (d *Document) Bytes() ([]byte, error) {
	if d.pages == 0 {
		d.AddFailurePage(d.title, "No entries.")
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %v: %w", err, customerrors.ErrRender)
	}
	return buf.Bytes(), nil
}

// Filename builds a dated file name such as watchlist_180d_2024-06-14.pdf.
func Filename(prefix string, days int, now time.Time) string {
	return fmt.Sprintf("%s_%dd_%s.pdf", prefix, days, now.Format("2006-01-02"))
}

// SizeLabel renders a byte count for log and chat messages.
func SizeLabel(data []byte) string {
	return humanize.Bytes(uint64(len(data)))
}
