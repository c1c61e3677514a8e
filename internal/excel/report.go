package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/market-leases/internal/model"
	"github.com/nurpe/market-leases/internal/money"
)

const maxSheetName = 31

// GenerateReport writes the collection report: a summary sheet plus one sheet per group.
func (g *Generator) GenerateReport(report model.PaymentReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeReportSummary(file, report)

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, group := range report.Groups {
		sheetName := buildSheetName(group, usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		g.writeReportDetail(file, sheetName, report, group)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeReportSummary(file *excelize.File, report model.PaymentReport) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Reporte de cobranza por")
	set("B1", report.Mode.Label())
	set("A2", "Inicio del período")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Fin del período")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Estado")
	set("B4", statusFilterLabel(report.Statuses))
	set("A5", "Cuotas")
	set("B5", report.PaymentCount)
	set("A6", "Cuotas sin tasa")
	set("B6", report.MissingRates)
	set("A7", "Esperado (Bs.)")
	set("B7", money.Round(report.Expected).InexactFloat64())
	set("A8", "Pagado (Bs.)")
	set("B8", money.Round(report.Paid).InexactFloat64())

	tableRow := 10
	set(fmt.Sprintf("A%d", tableRow), report.Mode.Label())
	set(fmt.Sprintf("B%d", tableRow), "Cuotas")
	set(fmt.Sprintf("C%d", tableRow), "Esperado (Bs.)")
	set(fmt.Sprintf("D%d", tableRow), "Pagado (Bs.)")
	set(fmt.Sprintf("E%d", tableRow), "Sin tasa")

	for i, group := range report.Groups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), group.Name)
		set(fmt.Sprintf("B%d", row), group.PaymentCount)
		set(fmt.Sprintf("C%d", row), money.Round(group.Expected).InexactFloat64())
		set(fmt.Sprintf("D%d", row), money.Round(group.Paid).InexactFloat64())
		set(fmt.Sprintf("E%d", row), group.MissingRates)
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 45)
	_ = file.SetColWidth(summarySheet, "B", "E", 16)
}

func (g *Generator) writeReportDetail(file *excelize.File, sheet string, report model.PaymentReport, group model.ReportGroup) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", report.Mode.Label())
	set("B1", group.Name)
	set("A2", "Inicio del período")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Fin del período")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Cuotas")
	set("B4", group.PaymentCount)
	set("A5", "Esperado (Bs.)")
	set("B5", money.Round(group.Expected).InexactFloat64())

	tableRow := 7
	headers := []string{
		"Referencia",
		"Fecha",
		"Adjudicatario",
		"Año fiscal",
		"Factor",
		"Monto (Bs.)",
		"Estado",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, payment := range group.Payments {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), payment.PaymentReference)
		set(fmt.Sprintf("B%d", row), formatDate(payment.PaymentDate))
		set(fmt.Sprintf("C%d", row), payment.AwardeeName)
		set(fmt.Sprintf("D%d", row), payment.FiscalYear)
		set(fmt.Sprintf("E%d", row), payment.MultiplierFactor.InexactFloat64())
		if amount, ok := payment.Amount(); ok {
			set(fmt.Sprintf("F%d", row), money.Round(amount).InexactFloat64())
		} else {
			set(fmt.Sprintf("F%d", row), money.MissingRate)
		}
		set(fmt.Sprintf("G%d", row), payment.Status.Label())
	}

	_ = file.SetColWidth(sheet, "A", "B", 16)
	_ = file.SetColWidth(sheet, "C", "C", 36)
	_ = file.SetColWidth(sheet, "D", "E", 10)
	_ = file.SetColWidth(sheet, "F", "G", 16)
}

func statusFilterLabel(statuses []model.PaymentStatus) string {
	if len(statuses) == 0 {
		return "Todos"
	}
	labels := make([]string, 0, len(statuses))
	for _, status := range statuses {
		labels = append(labels, status.Label())
	}
	return strings.Join(labels, ", ")
}

func buildSheetName(group model.ReportGroup, used map[string]struct{}) string {
	base := sanitizeSheetName(group.Name)
	if base == "" {
		base = fmt.Sprintf("Grupo %d", group.ID)
	}
	base = truncateRunes(base, maxSheetName)

	candidate := base
	for counter := 2; ; counter++ {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	return strings.Trim(strings.TrimSpace(replacer.Replace(value)), "'")
}

// truncateRunes cuts by characters; excelize counts sheet name length in runes.
func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
