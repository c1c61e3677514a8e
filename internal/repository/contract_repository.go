package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractSelect = `
	SELECT
		c.id,
		c.awardee_id,
		c.fiscal_year_id,
		c.start_date,
		c.end_date,
		c.type,
		c.contract_mode,
		c.created_at,
		c.updated_at,
		CONCAT_WS(' ', NULLIF(a.first_name, ''), NULLIF(a.middle_name, ''), NULLIF(a.last_name, ''), NULLIF(a.second_last_name, '')) AS awardee_name,
		a.id_number AS awardee_id_number,
		fy.year AS fiscal_year
	FROM contracts c
	JOIN awardees a ON a.id = c.awardee_id
	JOIN fiscal_years fy ON fy.id = c.fiscal_year_id
`

func contractFilter(filter model.ContractFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if filter.AwardeeID > 0 {
		clauses = append(clauses, "c.awardee_id = ?")
		args = append(args, filter.AwardeeID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := likePattern(search)
		clauses = append(clauses, `(LOWER(a.first_name) LIKE ? OR LOWER(a.middle_name) LIKE ? OR LOWER(a.last_name) LIKE ?
			OR LOWER(a.second_last_name) LIKE ? OR LOWER(a.id_number) LIKE ?
			OR LOWER(a.first_name || ' ' || a.last_name) LIKE ?)`)
		args = append(args, like, like, like, like, like, like)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *ContractRepository) List(ctx context.Context, filter model.ContractFilter, page model.Page) ([]model.Contract, int64, error) {
	where, args := contractFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM contracts c JOIN awardees a ON a.id = c.awardee_id` + where
	if err := r.db.WithContext(ctx).Raw(countQuery, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	query := contractSelect + where + " ORDER BY c.start_date DESC, c.id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Size, page.Offset())

	var contracts []model.Contract
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&contracts).Error; err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

// Get loads the contract with its category and location associations.
func (r *ContractRepository) Get(ctx context.Context, id int64) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).Raw(contractSelect+" WHERE c.id = ? LIMIT 1", id).Scan(&contract).Error; err != nil {
		return nil, err
	}
	if contract.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", id).
		Order("category_type ASC, name ASC").
		Find(&contract.Categories).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			cl.id,
			cl.contract_id,
			cl.stall_id,
			st.code AS stall_code,
			s.id AS sector_id,
			s.name AS sector_name,
			z.id AS zone_id,
			z.name AS zone_name
		FROM contract_locations cl
		JOIN stalls st ON st.id = cl.stall_id
		JOIN sectors s ON s.id = st.sector_id
		JOIN zones z ON z.id = s.zone_id
		WHERE cl.contract_id = ?
		ORDER BY z.name ASC, s.name ASC, st.code ASC
	`, id).Scan(&contract.Locations).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// Create stores the contract row, its associations and its payment schedule in one transaction.
// build receives the new contract id and returns the payments to insert.
func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract, build func(contractID int64) []model.ContractPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}
		if err := insertAssociations(tx, contract); err != nil {
			return err
		}
		return insertPayments(tx, build(contract.ID))
	})
}

// Update rewrites the contract row, replaces both association sets wholesale,
// drops the pending payments and inserts the regenerated ones.
func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract, payments []model.ContractPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Contract{ID: contract.ID}).Updates(map[string]interface{}{
			"awardee_id":     contract.AwardeeID,
			"fiscal_year_id": contract.FiscalYearID,
			"start_date":     contract.StartDate,
			"end_date":       contract.EndDate,
			"type":           contract.Type,
			"contract_mode":  contract.Mode,
			"updated_at":     gorm.Expr("NOW()"),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Exec(`DELETE FROM contract_categories WHERE contract_id = ?`, contract.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM contract_locations WHERE contract_id = ?`, contract.ID).Error; err != nil {
			return err
		}
		if err := insertAssociations(tx, contract); err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM contract_payments WHERE contract_id = ? AND status = ?`, contract.ID, model.PaymentPending).Error; err != nil {
			return err
		}
		return insertPayments(tx, payments)
	})
}

func (r *ContractRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "contracts", id)
}

func insertAssociations(tx *gorm.DB, contract *model.Contract) error {
	for i := range contract.Categories {
		contract.Categories[i].ID = 0
		contract.Categories[i].ContractID = contract.ID
	}
	if len(contract.Categories) > 0 {
		if err := tx.Create(&contract.Categories).Error; err != nil {
			return err
		}
	}

	for i := range contract.Locations {
		contract.Locations[i].ID = 0
		contract.Locations[i].ContractID = contract.ID
	}
	if len(contract.Locations) > 0 {
		if err := tx.Create(&contract.Locations).Error; err != nil {
			return err
		}
	}
	return nil
}

func insertPayments(tx *gorm.DB, payments []model.ContractPayment) error {
	if len(payments) == 0 {
		return nil
	}
	return tx.Create(&payments).Error
}
