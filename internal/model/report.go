package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportMode string

const (
	ReportByAwardee    ReportMode = "AWARDEE"
	ReportByFiscalYear ReportMode = "FISCAL_YEAR"
)

func (m ReportMode) Valid() bool {
	return m == ReportByAwardee || m == ReportByFiscalYear
}

func (m ReportMode) Label() string {
	if m == ReportByFiscalYear {
		return "Año fiscal"
	}
	return "Adjudicatario"
}

// ReportPayment is a scheduled payment together with the contract owner and fiscal year.
type ReportPayment struct {
	ID               int64               `gorm:"column:id"`
	ContractID       int64               `gorm:"column:contract_id"`
	PaymentReference string              `gorm:"column:payment_reference"`
	PaymentDate      time.Time           `gorm:"column:payment_date"`
	MultiplierFactor decimal.Decimal     `gorm:"column:multiplier_factor"`
	Status           PaymentStatus       `gorm:"column:status"`
	EuroRate         decimal.NullDecimal `gorm:"column:euro_rate"`
	AwardeeID        int64               `gorm:"column:awardee_id"`
	AwardeeName      string              `gorm:"column:awardee_name"`
	AwardeeIDNumber  string              `gorm:"column:awardee_id_number"`
	FiscalYearID     int64               `gorm:"column:fiscal_year_id"`
	FiscalYear       int                 `gorm:"column:fiscal_year"`
}

func (p ReportPayment) Amount() (decimal.Decimal, bool) {
	if !p.EuroRate.Valid {
		return decimal.Zero, false
	}
	return p.MultiplierFactor.Mul(p.EuroRate.Decimal), true
}

type ReportGroup struct {
	ID           int64
	Name         string
	PaymentCount int64
	Expected     decimal.Decimal
	Paid         decimal.Decimal
	MissingRates int
	Payments     []ReportPayment
}

// PaymentReport summarizes the payments falling due inside a period.
type PaymentReport struct {
	Mode         ReportMode
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Statuses     []PaymentStatus
	PaymentCount int64
	Expected     decimal.Decimal
	Paid         decimal.Decimal
	MissingRates int
	Groups       []ReportGroup
}
