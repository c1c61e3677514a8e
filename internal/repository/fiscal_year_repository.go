package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

type FiscalYearRepository struct {
	db *gorm.DB
}

func NewFiscalYearRepository(db *gorm.DB) *FiscalYearRepository {
	return &FiscalYearRepository{db: db}
}

func (r *FiscalYearRepository) List(ctx context.Context, page model.Page) ([]model.FiscalYear, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.FiscalYear{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var years []model.FiscalYear
	if err := r.db.WithContext(ctx).Scopes(paginate(page)).Order("year DESC").Find(&years).Error; err != nil {
		return nil, 0, err
	}
	return years, total, nil
}

func (r *FiscalYearRepository) ListAll(ctx context.Context) ([]model.FiscalYear, error) {
	var years []model.FiscalYear
	if err := r.db.WithContext(ctx).Order("year DESC").Find(&years).Error; err != nil {
		return nil, err
	}
	return years, nil
}

func (r *FiscalYearRepository) Get(ctx context.Context, id int64) (*model.FiscalYear, error) {
	var year model.FiscalYear
	if err := r.db.WithContext(ctx).First(&year, id).Error; err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *FiscalYearRepository) YearExists(ctx context.Context, year int, excludeID int64) (bool, error) {
	count, err := countWhere(ctx, r.db, "fiscal_years", "year = ? AND id <> ?", year, excludeID)
	return count > 0, err
}

func (r *FiscalYearRepository) Create(ctx context.Context, year *model.FiscalYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *FiscalYearRepository) Update(ctx context.Context, year *model.FiscalYear) error {
	return r.db.WithContext(ctx).Model(&model.FiscalYear{ID: year.ID}).Updates(map[string]interface{}{
		"year":       year.Year,
		"start_date": year.StartDate,
		"end_date":   year.EndDate,
		"status":     year.Status,
		"updated_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *FiscalYearRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "fiscal_years", id)
}

func (r *FiscalYearRepository) CountContracts(ctx context.Context, id int64) (int64, error) {
	return countWhere(ctx, r.db, "contracts", "fiscal_year_id = ?", id)
}
