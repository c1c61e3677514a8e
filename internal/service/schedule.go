package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/market-leases/internal/model"
)

// Installment is one billing period of a contract.
type Installment struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	DueDate     time.Time
}

// Installments splits [start, end] into monthly or weekly periods; the last period stops at end.
// Advance contracts are due on the first day of each period, simultaneous ones on the last.
func Installments(start, end time.Time, mode model.ContractMode, kind model.ContractType) []Installment {
	start, end = dateOnly(start), dateOnly(end)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}

	var result []Installment
	for i := 0; ; i++ {
		periodStart := periodBoundary(start, mode, i)
		if periodStart.After(end) {
			break
		}
		periodEnd := periodBoundary(start, mode, i+1).AddDate(0, 0, -1)
		if periodEnd.After(end) {
			periodEnd = end
		}

		due := periodEnd
		if kind == model.ContractAdvance {
			due = periodStart
		}
		result = append(result, Installment{PeriodStart: periodStart, PeriodEnd: periodEnd, DueDate: due})
	}
	return result
}

func periodBoundary(start time.Time, mode model.ContractMode, n int) time.Time {
	if mode == model.ContractWeekly {
		return start.AddDate(0, 0, 7*n)
	}
	return addMonths(start, n)
}

// addMonths clamps to the last day of the target month instead of overflowing into the next one.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// MultiplierFactor is the number of units billed per installment: the summed category
// payment counts (1 when the contract has no categories) times the number of stalls (at least 1).
func MultiplierFactor(categories []model.ContractCategory, locations []model.ContractLocation) decimal.Decimal {
	units := int64(0)
	for _, category := range categories {
		units += int64(category.PaymentCount)
	}
	if len(categories) == 0 {
		units = 1
	}
	stalls := int64(len(locations))
	if stalls < 1 {
		stalls = 1
	}
	return decimal.NewFromInt(units * stalls)
}

// BuildSchedule returns the pending payments for contract. An installment whose period
// already holds a payment in keep (paid, cancelled, refunded) is skipped, and the
// references of kept payments are never handed out again.
func BuildSchedule(contract *model.Contract, keep []model.ContractPayment) []model.ContractPayment {
	used := make(map[string]struct{}, len(keep))
	for _, payment := range keep {
		used[payment.PaymentReference] = struct{}{}
	}

	factor := MultiplierFactor(contract.Categories, contract.Locations)
	installments := Installments(contract.StartDate, contract.EndDate, contract.Mode, contract.Type)
	spare := len(installments)
	payments := make([]model.ContractPayment, 0, len(installments))
	for i, installment := range installments {
		if settled(keep, installment) {
			continue
		}

		reference := PaymentReference(contract.ID, i+1)
		for _, taken := used[reference]; taken; _, taken = used[reference] {
			spare++
			reference = PaymentReference(contract.ID, spare)
		}
		used[reference] = struct{}{}

		payments = append(payments, model.ContractPayment{
			ContractID:       contract.ID,
			PaymentReference: reference,
			PaymentDate:      installment.DueDate,
			MultiplierFactor: factor,
			Status:           model.PaymentPending,
		})
	}
	return payments
}

// settled reports whether a kept payment falls inside the installment's period.
func settled(keep []model.ContractPayment, installment Installment) bool {
	for _, payment := range keep {
		d := dateOnly(payment.PaymentDate)
		if !d.Before(installment.PeriodStart) && !d.After(installment.PeriodEnd) {
			return true
		}
	}
	return false
}

// PaymentReference numbers installments by their position in the full schedule,
// so a regenerated pending payment keeps the reference of the one it replaces.
func PaymentReference(contractID int64, sequence int) string {
	return fmt.Sprintf("CT%06d-%03d", contractID, sequence)
}

// PaymentLine is a payment with its computed amount.
type PaymentLine struct {
	Payment model.ContractPayment
	Amount  decimal.Decimal
	HasRate bool
}

type PaymentSummary struct {
	Lines []PaymentLine
	// Total sums the lines that have a rate; MissingRates counts the others.
	Total        decimal.Decimal
	MissingRates int
	Paid         decimal.Decimal
}

func Summarize(payments []model.ContractPayment) PaymentSummary {
	summary := PaymentSummary{
		Lines: make([]PaymentLine, 0, len(payments)),
		Total: decimal.Zero,
		Paid:  decimal.Zero,
	}
	for _, payment := range payments {
		amount, ok := payment.Amount()
		summary.Lines = append(summary.Lines, PaymentLine{Payment: payment, Amount: amount, HasRate: ok})
		if !ok {
			summary.MissingRates++
			continue
		}
		summary.Total = summary.Total.Add(amount)
		if payment.Status == model.PaymentPaid {
			summary.Paid = summary.Paid.Add(amount)
		}
	}
	return summary
}
