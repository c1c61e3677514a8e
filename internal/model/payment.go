package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "Pendiente"
	case PaymentPaid:
		return "Pagado"
	case PaymentCancelled:
		return "Cancelado"
	case PaymentRefunded:
		return "Reembolsado"
	}
	return string(s)
}

// PaymentStatuses lists every status in display order.
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentCancelled, PaymentRefunded}

type ContractPayment struct {
	ID               int64           `gorm:"primaryKey" json:"id"`
	ContractID       int64           `gorm:"column:contract_id" json:"contract_id"`
	PaymentReference string          `gorm:"column:payment_reference" json:"payment_reference"`
	PaymentDate      time.Time       `gorm:"column:payment_date" json:"payment_date"`
	MultiplierFactor decimal.Decimal `gorm:"column:multiplier_factor" json:"multiplier_factor"`
	Status           PaymentStatus   `gorm:"column:status" json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// EuroRate comes from exchange_rates by payment_date and is null when no rate exists for that day.
	EuroRate decimal.NullDecimal `gorm:"->;column:euro_rate" json:"euro_rate"`
}

func (ContractPayment) TableName() string { return "contract_payments" }

// Amount returns multiplier_factor × euro_rate; ok is false when the rate is missing.
func (p ContractPayment) Amount() (decimal.Decimal, bool) {
	if !p.EuroRate.Valid {
		return decimal.Zero, false
	}
	return p.MultiplierFactor.Mul(p.EuroRate.Decimal), true
}

type ExchangeRate struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	RateDate  time.Time       `gorm:"column:rate_date" json:"rate_date"`
	EuroRate  decimal.Decimal `gorm:"column:euro_rate" json:"euro_rate"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (ExchangeRate) TableName() string { return "exchange_rates" }
