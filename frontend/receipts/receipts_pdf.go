package receipts

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"weighbridge/models"
)

// Page geometry in mm. Three copies plus two gaps fill the printable height
// exactly, so copy height is fixed regardless of content.
const (
	pageMarginMM = 10.0
	copyGapMM    = 6.0
)

// CopyHeight is the deterministic per-copy box height for a 3-up page.
func CopyHeight(pageH, margin, gap float64) float64 {
	return (pageH - 2*margin - 2*gap) / 3
}

// RenderReceiptPDF produces the printable page: the same receipt drawn three
// times, stacked with uniform gaps, on one A4 portrait page.
func RenderReceiptPDF(rec models.Receipt, cfg models.TemplateConfig) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Weighbridge Receipt", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	copyW := pageW - 2*pageMarginMM
	copyH := CopyHeight(pageH, pageMarginMM, copyGapMM)

	var barcodePNG []byte
	if cfg.ShowBarcode && strings.TrimSpace(rec.RSTNo) != "" {
		var err error
		barcodePNG, err = renderCode128PNG(strings.TrimSpace(rec.RSTNo), 900, 180)
		if err != nil {
			return nil, err
		}
	}

	for i := 0; i < 3; i++ {
		y := pageMarginMM + float64(i)*(copyH+copyGapMM)
		drawReceiptCopy(pdf, rec, cfg, pageMarginMM, y, copyW, copyH, barcodePNG, i)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// drawReceiptCopy paints one copy inside its fixed box. Field order and the
// GROSS-with-out / TARE-with-in timestamp pairing are part of the ticket
// format and must not change.
func drawReceiptCopy(pdf *gofpdf.Fpdf, rec models.Receipt, cfg models.TemplateConfig, x0, y0, w0, h0 float64, barcodePNG []byte, copyIndex int) {
	pdf.SetLineWidth(0.3)
	pdf.Rect(x0, y0, w0, h0, "")

	halfW := w0 / 2
	rowH := 6.0
	y := y0 + 3

	pdf.SetTextColor(0, 0, 0)
	labeledCell(pdf, x0+3, y, halfW-6, "RST NO", rec.RSTNo)
	labeledCell(pdf, x0+halfW+3, y, halfW-6, "VEHICLE NO", rec.VehicleNo)
	y += rowH

	labeledCell(pdf, x0+3, y, halfW-6, "MATERIAL", rec.Material)
	labeledCell(pdf, x0+halfW+3, y, halfW-6, "CUSTOMER", rec.Customer)
	y += rowH

	labeledCell(pdf, x0+3, y, w0-6, "SUPPLIER", rec.Supplier)
	y += rowH

	pdf.Line(x0, y, x0+w0, y)
	y += 1.5

	weightRow(pdf, x0, y, w0, "GROSS", rec.GrossWeight, rec.DateTimeOut)
	y += rowH
	weightRow(pdf, x0, y, w0, "TARE", rec.TareWeight, rec.DateTimeIn)
	y += rowH

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(x0+3, y)
	pdf.CellFormat(24, 5, "NET", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, FormatWeight(rec.NetWeight)+" KG", "", 0, "L", false, 0, "")
	words := WeightToWords(rec.NetWeight) + " KG"
	pdf.SetFont("Helvetica", "", 8.5)
	wordsFont := fitFontSizeForWidth(pdf, "Helvetica", "", 8.5, 6, words, w0-63)
	pdf.SetFont("Helvetica", "", wordsFont)
	pdf.CellFormat(w0-63, 5, words, "", 0, "L", false, 0, "")
	y += rowH

	pdf.Line(x0, y, x0+w0, y)
	y += 1.5

	if cfg.ShowCharges {
		labeledCell(pdf, x0+3, y, halfW-6, "CHARGES", rec.Charges.StringFixed(2))
		y += rowH
	}

	sigY := y0 + h0 - 22
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(x0+3, sigY)
	pdf.CellFormat(halfW-6, 4, "Operator's Signature", "T", 0, "L", false, 0, "")
	pdf.SetXY(x0+halfW+3, sigY)
	pdf.CellFormat(halfW-6, 4, "Party's Sign", "T", 0, "R", false, 0, "")

	drawFooter(pdf, rec, cfg, x0, y0, w0, h0)

	if len(barcodePNG) > 0 {
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("rst-barcode-%d", copyIndex)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		pdf.ImageOptions(imageName, x0+w0-38, y0+2.5, 34, 8, false, opt, 0, "")
	}
}

func weightRow(pdf *gofpdf.Fpdf, x0, y, w0 float64, label string, weight float64, ts time.Time) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(x0+3, y)
	pdf.CellFormat(24, 5, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, FormatWeight(weight)+" KG", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat((w0-63)/2, 5, "Date : "+FormatDate(ts), "", 0, "L", false, 0, "")
	pdf.CellFormat((w0-63)/2, 5, "Time : "+FormatTime(ts), "", 0, "L", false, 0, "")
}

func labeledCell(pdf *gofpdf.Fpdf, x, y, w float64, label, value string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(x, y)
	pdf.CellFormat(24, 5, label+" :", "", 0, "L", false, 0, "")
	size := fitFontSizeForWidth(pdf, "Helvetica", "", 9.5, 6.5, value, w-25)
	pdf.SetFont("Helvetica", "", size)
	pdf.CellFormat(w-24, 5, value, "", 0, "L", false, 0, "")
}

func drawFooter(pdf *gofpdf.Fpdf, rec models.Receipt, cfg models.TemplateConfig, x0, y0, w0, h0 float64) {
	lines := make([]string, 0, 6)
	if name := strings.TrimSpace(cfg.CompanyName); name != "" {
		lines = append(lines, name)
	}
	lines = append(lines, splitLines(cfg.Address)...)
	lines = append(lines, splitLines(cfg.Footer)...)
	if remarks := strings.TrimSpace(rec.Remarks); remarks != "" {
		lines = append(lines, "Remarks: "+remarks)
	}
	if len(lines) == 0 {
		return
	}

	lineH := 3.4
	y := y0 + h0 - 2 - lineH*float64(len(lines))
	pdf.SetFont("Helvetica", "", 7)
	for _, line := range lines {
		pdf.SetXY(x0+3, y)
		pdf.CellFormat(w0-6, lineH, line, "", 0, "C", false, 0, "")
		y += lineH
	}
}

func splitLines(s string) []string {
	out := make([]string, 0, 2)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	bounds := scaled.Bounds()
	normalized := image.NewNRGBA(bounds)
	draw.Draw(normalized, bounds, scaled, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
