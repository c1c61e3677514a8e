package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentSelect = `
	SELECT
		p.id,
		p.contract_id,
		p.payment_reference,
		p.payment_date,
		p.multiplier_factor,
		p.status,
		p.created_at,
		p.updated_at,
		er.euro_rate
	FROM contract_payments p
	LEFT JOIN exchange_rates er ON er.rate_date = p.payment_date
`

func (r *PaymentRepository) ListByContract(ctx context.Context, contractID int64) ([]model.ContractPayment, error) {
	var payments []model.ContractPayment
	err := r.db.WithContext(ctx).
		Raw(paymentSelect+" WHERE p.contract_id = ? ORDER BY p.payment_date ASC, p.id ASC", contractID).
		Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*model.ContractPayment, error) {
	var payment model.ContractPayment
	if err := r.db.WithContext(ctx).Raw(paymentSelect+" WHERE p.id = ? LIMIT 1", id).Scan(&payment).Error; err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &payment, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contract_payments
		SET status = ?, updated_at = NOW()
		WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ExchangeRateRepository struct {
	db *gorm.DB
}

func NewExchangeRateRepository(db *gorm.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

func (r *ExchangeRateRepository) List(ctx context.Context, page model.Page) ([]model.ExchangeRate, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ExchangeRate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rates []model.ExchangeRate
	if err := r.db.WithContext(ctx).Scopes(paginate(page)).Order("rate_date DESC").Find(&rates).Error; err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}

// Upsert stores the rate for the day, replacing an existing one.
func (r *ExchangeRateRepository) Upsert(ctx context.Context, day time.Time, rate decimal.Decimal) (*model.ExchangeRate, error) {
	var saved model.ExchangeRate
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO exchange_rates (rate_date, euro_rate)
		VALUES (?, ?)
		ON CONFLICT (rate_date) DO UPDATE
		SET euro_rate = EXCLUDED.euro_rate, updated_at = NOW()
		RETURNING id, rate_date, euro_rate, created_at, updated_at
	`, day, rate).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ExchangeRateRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "exchange_rates", id)
}
