package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/market-leases/internal/money"
	"github.com/nurpe/market-leases/internal/service"
)

const fontName = "Helvetica"

type Generator struct {
	money *money.Formatter
}

func NewGenerator(formatter *money.Formatter) *Generator {
	return &Generator{money: formatter}
}

// Generate renders the printable contract with its payment schedule.
func (g *Generator) Generate(detail service.ContractDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps accented Spanish characters.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	contract := detail.Contract

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("CONTRATO DE ARRENDAMIENTO DE LOCAL"), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contrato N° CT%06d - Año fiscal %d", contract.ID, detail.FiscalYear.Year)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, tr, "Adjudicatario")
	lines := []string{
		detail.Awardee.FullName(),
		fmt.Sprintf("Cédula: %s", detail.Awardee.IDNumber),
		fmt.Sprintf("Teléfono: %s", safeValue(detail.Awardee.Phone)),
		fmt.Sprintf("Dirección: %s", safeValue(detail.Awardee.Address)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(2)

	section(pdf, tr, "Condiciones")
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Vigencia del %s al %s. Tipo %s, modalidad %s.",
		formatDate(contract.StartDate), formatDate(contract.EndDate),
		strings.ToLower(contract.Type.Label()), strings.ToLower(contract.Mode.Label()))), "", "L", false)
	pdf.Ln(2)

	if len(contract.Categories) > 0 {
		section(pdf, tr, "Categorías de negocio")
		for _, category := range contract.Categories {
			line := fmt.Sprintf("- %s (%s, %d pago(s))", category.Name, service.KindLabel(category.CategoryType), category.PaymentCount)
			if category.InstallationType != "" {
				line += fmt.Sprintf(", instalación %s", category.InstallationType)
			}
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
		pdf.Ln(2)
	}

	if len(contract.Locations) > 0 {
		section(pdf, tr, "Locales")
		for _, location := range contract.Locations {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("- %s, %s / %s", location.StallCode, location.ZoneName, location.SectorName)), "", "L", false)
		}
		pdf.Ln(2)
	}

	section(pdf, tr, "Cronograma de pagos")
	widths := []float64{40, 28, 20, 30, 40, 22}
	drawTableRow(pdf, tr, []string{"Referencia", "Fecha", "Factor", "Tasa EUR", "Monto (Bs.)", "Estado"}, widths, true)
	for _, line := range detail.Payments.Lines {
		payment := line.Payment
		rate := "-"
		if line.HasRate {
			rate = g.money.Rate(payment.EuroRate.Decimal)
		}
		drawTableRow(pdf, tr, []string{
			payment.PaymentReference,
			formatDate(payment.PaymentDate),
			payment.MultiplierFactor.String(),
			rate,
			g.money.Line(line.Amount, line.HasRate),
			payment.Status.Label(),
		}, widths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total: Bs. %s", g.money.Amount(detail.Payments.Total))), "", 1, "R", false, 0, "")
	if detail.Payments.MissingRates > 0 {
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d cuota(s) sin tasa asignada no están incluidas en el total.", detail.Payments.MissingRates)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(8)
	signatureBlock(pdf, tr, "Adjudicatario", detail.Awardee.FullName())
	signatureBlock(pdf, tr, "Administración", "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i >= 2 && i <= 4 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureBlock(pdf *gofpdf.Fpdf, tr func(string) string, label, name string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s: ______________________ /%s/", label, safeValue(name))), "", 1, "L", false, 0, "")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
