package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ListPayments returns the payments due in [from, to), oldest first.
func (r *ReportRepository) ListPayments(
	ctx context.Context,
	from, to time.Time,
	statuses []model.PaymentStatus,
) ([]model.ReportPayment, error) {
	baseQuery := `
		SELECT
			p.id,
			p.contract_id,
			p.payment_reference,
			p.payment_date,
			p.multiplier_factor,
			p.status,
			er.euro_rate,
			a.id AS awardee_id,
			CONCAT_WS(' ', NULLIF(a.first_name, ''), NULLIF(a.middle_name, ''), NULLIF(a.last_name, ''), NULLIF(a.second_last_name, '')) AS awardee_name,
			a.id_number AS awardee_id_number,
			fy.id AS fiscal_year_id,
			fy.year AS fiscal_year
		FROM contract_payments p
		JOIN contracts c ON c.id = p.contract_id
		JOIN awardees a ON a.id = c.awardee_id
		JOIN fiscal_years fy ON fy.id = c.fiscal_year_id
		LEFT JOIN exchange_rates er ON er.rate_date = p.payment_date
		WHERE p.payment_date >= ?
			AND p.payment_date < ?
	`
	args := []interface{}{from, to}
	baseQuery, args = appendStatusFilter(baseQuery, args, statuses)
	baseQuery += " ORDER BY p.payment_date ASC, p.id ASC"

	var rows []model.ReportPayment
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func appendStatusFilter(baseQuery string, args []interface{}, statuses []model.PaymentStatus) (string, []interface{}) {
	if len(statuses) == 0 {
		return baseQuery, args
	}

	placeholders := make([]string, len(statuses))
	for i := range statuses {
		placeholders[i] = "?"
	}
	baseQuery += fmt.Sprintf(" AND p.status IN (%s)", strings.Join(placeholders, ","))
	for _, status := range statuses {
		args = append(args, status)
	}
	return baseQuery, args
}
