package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/market-leases/internal/model"
)

type ReportExcel interface {
	GenerateReport(report model.PaymentReport) ([]byte, error)
}

// ReportService builds the collection report: payments due in a period grouped
// by awardee or by fiscal year.
type ReportService struct {
	repo  ReportStore
	excel ReportExcel
}

type ReportInput struct {
	Mode        string `form:"mode" json:"mode"`
	PeriodStart string `form:"period_start" json:"period_start"`
	PeriodEnd   string `form:"period_end" json:"period_end"`
	Status      string `form:"status" json:"status"`
}

type GenerateReportResult struct {
	FileName string
	Content  []byte
}

func NewReportService(repo ReportStore, excel ReportExcel) *ReportService {
	return &ReportService{
		repo:  repo,
		excel: excel,
	}
}

func (s *ReportService) Build(ctx context.Context, input ReportInput) (*model.PaymentReport, error) {
	v := &ValidationError{}

	mode := model.ReportMode(strings.ToUpper(strings.TrimSpace(input.Mode)))
	if mode == "" {
		mode = model.ReportByAwardee
	}
	if !mode.Valid() {
		v.Add("mode", "El tipo de reporte no es válido.")
	}

	periodStart, okStart := parseDate(input.PeriodStart)
	if !okStart {
		v.Add("period_start", "La fecha de inicio es requerida.")
	}
	periodEnd, okEnd := parseDate(input.PeriodEnd)
	if !okEnd {
		v.Add("period_end", "La fecha de fin es requerida.")
	}
	if okStart && okEnd && periodStart.After(periodEnd) {
		v.Add("period_end", "La fecha de fin debe ser igual o posterior a la fecha de inicio.")
	}

	var statuses []model.PaymentStatus
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status := model.PaymentStatus(raw)
		if !status.Valid() {
			v.Add("status", "El estado de pago no es válido.")
		}
		statuses = []model.PaymentStatus{status}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	endExclusive := periodEnd.AddDate(0, 0, 1)
	payments, err := s.repo.ListPayments(ctx, periodStart, endExclusive, statuses)
	if err != nil {
		return nil, err
	}

	report := &model.PaymentReport{
		Mode:        mode,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Statuses:    statuses,
		Expected:    decimal.Zero,
		Paid:        decimal.Zero,
		Groups:      groupPayments(mode, payments),
	}
	for _, group := range report.Groups {
		report.PaymentCount += group.PaymentCount
		report.Expected = report.Expected.Add(group.Expected)
		report.Paid = report.Paid.Add(group.Paid)
		report.MissingRates += group.MissingRates
	}
	return report, nil
}

func (s *ReportService) Generate(ctx context.Context, input ReportInput) (*GenerateReportResult, error) {
	report, err := s.Build(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.GenerateReport(*report)
	if err != nil {
		return nil, err
	}
	return &GenerateReportResult{
		FileName: reportFileName(*report),
		Content:  content,
	}, nil
}

func reportFileName(report model.PaymentReport) string {
	mode := sanitizeFileName(strings.ToLower(string(report.Mode)))
	period := fmt.Sprintf("%s-%s", report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("cobranza-%s-%s.xlsx", mode, period)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

// groupPayments keeps the groups in order of their first payment.
func groupPayments(mode model.ReportMode, payments []model.ReportPayment) []model.ReportGroup {
	result := make([]model.ReportGroup, 0)
	index := make(map[int64]int)

	for _, payment := range payments {
		id, name := payment.AwardeeID, payment.AwardeeName
		if payment.AwardeeIDNumber != "" {
			name = fmt.Sprintf("%s (%s)", name, payment.AwardeeIDNumber)
		}
		if mode == model.ReportByFiscalYear {
			id, name = payment.FiscalYearID, strconv.Itoa(payment.FiscalYear)
		}

		pos, ok := index[id]
		if !ok {
			result = append(result, model.ReportGroup{ID: id, Name: name, Expected: decimal.Zero, Paid: decimal.Zero})
			pos = len(result) - 1
			index[id] = pos
		}

		group := &result[pos]
		group.PaymentCount++
		group.Payments = append(group.Payments, payment)
		amount, ok := payment.Amount()
		if !ok {
			group.MissingRates++
			continue
		}
		group.Expected = group.Expected.Add(amount)
		if payment.Status == model.PaymentPaid {
			group.Paid = group.Paid.Add(amount)
		}
	}

	return result
}

// MonthBounds returns the first and last day of the month of now, formatted for date inputs.
func MonthBounds(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout)
}
