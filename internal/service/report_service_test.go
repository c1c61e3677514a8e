package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/market-leases/internal/model"
)

type fakeReportStore struct {
	payments []model.ReportPayment
	from, to time.Time
	statuses []model.PaymentStatus
}

func (f *fakeReportStore) ListPayments(_ context.Context, from, to time.Time, statuses []model.PaymentStatus) ([]model.ReportPayment, error) {
	f.from, f.to, f.statuses = from, to, statuses
	var result []model.ReportPayment
	for _, payment := range f.payments {
		if payment.PaymentDate.Before(from) || !payment.PaymentDate.Before(to) {
			continue
		}
		if len(statuses) > 0 && payment.Status != statuses[0] {
			continue
		}
		result = append(result, payment)
	}
	return result, nil
}

type fakeReportExcel struct {
	report model.PaymentReport
}

func (f *fakeReportExcel) GenerateReport(report model.PaymentReport) ([]byte, error) {
	f.report = report
	return []byte("xlsx"), nil
}

func reportFixture() *fakeReportStore {
	rate := decimal.NewNullDecimal(decimal.RequireFromString("40"))
	return &fakeReportStore{payments: []model.ReportPayment{
		{ID: 1, PaymentReference: "CT000001-001", PaymentDate: day("2025-03-01"), MultiplierFactor: decimal.NewFromInt(2),
			Status: model.PaymentPaid, EuroRate: rate, AwardeeID: 7, AwardeeName: "Ana Rojas", AwardeeIDNumber: "V1",
			FiscalYearID: 5, FiscalYear: 2025},
		{ID: 2, PaymentReference: "CT000002-001", PaymentDate: day("2025-03-10"), MultiplierFactor: decimal.NewFromInt(1),
			Status: model.PaymentPending, EuroRate: rate, AwardeeID: 8, AwardeeName: "Luis Pérez", AwardeeIDNumber: "V2",
			FiscalYearID: 5, FiscalYear: 2025},
		{ID: 3, PaymentReference: "CT000001-002", PaymentDate: day("2025-03-31"), MultiplierFactor: decimal.NewFromInt(2),
			Status: model.PaymentPending, AwardeeID: 7, AwardeeName: "Ana Rojas", AwardeeIDNumber: "V1",
			FiscalYearID: 5, FiscalYear: 2025},
		{ID: 4, PaymentReference: "CT000001-003", PaymentDate: day("2025-04-01"), MultiplierFactor: decimal.NewFromInt(2),
			Status: model.PaymentPending, EuroRate: rate, AwardeeID: 7, AwardeeName: "Ana Rojas", AwardeeIDNumber: "V1",
			FiscalYearID: 5, FiscalYear: 2025},
	}}
}

func TestReportService_BuildByAwardee(t *testing.T) {
	store := reportFixture()
	svc := NewReportService(store, &fakeReportExcel{})

	report, err := svc.Build(context.Background(), ReportInput{PeriodStart: "2025-03-01", PeriodEnd: "2025-03-31"})
	require.NoError(t, err)

	assert.Equal(t, day("2025-04-01"), store.to, "end date is inclusive")
	assert.Equal(t, model.ReportByAwardee, report.Mode)
	assert.EqualValues(t, 3, report.PaymentCount)
	assert.Equal(t, "120", report.Expected.String())
	assert.Equal(t, "80", report.Paid.String())
	assert.Equal(t, 1, report.MissingRates)

	require.Len(t, report.Groups, 2)
	assert.Equal(t, "Ana Rojas (V1)", report.Groups[0].Name)
	assert.EqualValues(t, 2, report.Groups[0].PaymentCount)
	assert.Equal(t, "80", report.Groups[0].Expected.String())
	assert.Equal(t, 1, report.Groups[0].MissingRates)
	assert.Equal(t, "Luis Pérez (V2)", report.Groups[1].Name)
	assert.Equal(t, "0", report.Groups[1].Paid.String())
}

func TestReportService_BuildByFiscalYearWithStatus(t *testing.T) {
	store := reportFixture()
	svc := NewReportService(store, &fakeReportExcel{})

	report, err := svc.Build(context.Background(), ReportInput{
		Mode: "fiscal_year", PeriodStart: "2025-03-01", PeriodEnd: "2025-04-30", Status: "pending",
	})
	require.NoError(t, err)

	assert.Equal(t, []model.PaymentStatus{model.PaymentPending}, store.statuses)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, "2025", report.Groups[0].Name)
	assert.EqualValues(t, 3, report.Groups[0].PaymentCount)
	assert.Equal(t, "0", report.Paid.String())
}

func TestReportService_Validation(t *testing.T) {
	svc := NewReportService(reportFixture(), &fakeReportExcel{})

	_, err := svc.Build(context.Background(), ReportInput{Mode: "zone", PeriodStart: "2025-03-31", PeriodEnd: "2025-03-01", Status: "late"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("mode"))
	assert.True(t, ve.Has("period_end"))
	assert.True(t, ve.Has("status"))

	_, err = svc.Build(context.Background(), ReportInput{})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("period_start"))
	assert.True(t, ve.Has("period_end"))
}

func TestReportService_Generate(t *testing.T) {
	excel := &fakeReportExcel{}
	svc := NewReportService(reportFixture(), excel)

	result, err := svc.Generate(context.Background(), ReportInput{Mode: "FISCAL_YEAR", PeriodStart: "2025-03-01", PeriodEnd: "2025-03-31"})
	require.NoError(t, err)

	assert.Equal(t, "cobranza-fiscal_year-20250301-20250331.xlsx", result.FileName)
	assert.Equal(t, []byte("xlsx"), result.Content)
	assert.Equal(t, model.ReportByFiscalYear, excel.report.Mode)
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2024, 2, 17, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", first)
	assert.Equal(t, "2024-02-29", last)
}
