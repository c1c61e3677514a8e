package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/market-leases/internal/money"
	"github.com/nurpe/market-leases/internal/service"
)

const (
	summarySheet  = "Resumen"
	paymentsSheet = "Pagos"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the payment schedule workbook of one contract.
func (g *Generator) Generate(detail service.ContractDetail) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, detail); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(paymentsSheet); err != nil {
		return nil, err
	}
	if err := g.writePayments(file, detail); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, detail service.ContractDetail) error {
	contract := detail.Contract
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	rows := [][2]interface{}{
		{"Contrato", fmt.Sprintf("CT%06d", contract.ID)},
		{"Adjudicatario", detail.Awardee.FullName()},
		{"Cédula", detail.Awardee.IDNumber},
		{"Año fiscal", detail.FiscalYear.Year},
		{"Inicio", formatDate(contract.StartDate)},
		{"Fin", formatDate(contract.EndDate)},
		{"Tipo", contract.Type.Label()},
		{"Modalidad", contract.Mode.Label()},
		{"Categorías", categoryNames(detail)},
		{"Locales", stallCodes(detail)},
		{"Cuotas", len(detail.Payments.Lines)},
		{"Cuotas sin tasa", detail.Payments.MissingRates},
		{"Total (Bs.)", money.Round(detail.Payments.Total).InexactFloat64()},
		{"Pagado (Bs.)", money.Round(detail.Payments.Paid).InexactFloat64()},
	}
	for i, row := range rows {
		set(fmt.Sprintf("A%d", i+1), row[0])
		set(fmt.Sprintf("B%d", i+1), row[1])
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 20)
	_ = file.SetColWidth(summarySheet, "B", "B", 60)
	return nil
}

func (g *Generator) writePayments(file *excelize.File, detail service.ContractDetail) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(paymentsSheet, cell, value)
	}

	headers := []string{
		"Referencia",
		"Fecha",
		"Factor",
		"Tasa EUR",
		"Monto (Bs.)",
		"Estado",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = file.SetCellStyle(paymentsSheet, "A1", "F1", style)
	}

	for i, line := range detail.Payments.Lines {
		row := i + 2
		payment := line.Payment
		set(fmt.Sprintf("A%d", row), payment.PaymentReference)
		set(fmt.Sprintf("B%d", row), formatDate(payment.PaymentDate))
		set(fmt.Sprintf("C%d", row), payment.MultiplierFactor.InexactFloat64())
		if line.HasRate {
			set(fmt.Sprintf("D%d", row), payment.EuroRate.Decimal.InexactFloat64())
			set(fmt.Sprintf("E%d", row), money.Round(line.Amount).InexactFloat64())
		} else {
			set(fmt.Sprintf("E%d", row), money.MissingRate)
		}
		set(fmt.Sprintf("F%d", row), payment.Status.Label())
	}

	totalRow := len(detail.Payments.Lines) + 2
	set(fmt.Sprintf("D%d", totalRow), "Total")
	set(fmt.Sprintf("E%d", totalRow), money.Round(detail.Payments.Total).InexactFloat64())

	_ = file.SetColWidth(paymentsSheet, "A", "A", 16)
	_ = file.SetColWidth(paymentsSheet, "B", "D", 12)
	_ = file.SetColWidth(paymentsSheet, "E", "E", 18)
	_ = file.SetColWidth(paymentsSheet, "F", "F", 14)
	return nil
}

func categoryNames(detail service.ContractDetail) string {
	names := make([]string, 0, len(detail.Contract.Categories))
	for _, category := range detail.Contract.Categories {
		names = append(names, category.Name)
	}
	return strings.Join(names, ", ")
}

func stallCodes(detail service.ContractDetail) string {
	codes := make([]string, 0, len(detail.Contract.Locations))
	for _, location := range detail.Contract.Locations {
		codes = append(codes, fmt.Sprintf("%s (%s / %s)", location.StallCode, location.ZoneName, location.SectorName))
	}
	return strings.Join(codes, ", ")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
