package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

type CashRegisterRepository struct {
	db *gorm.DB
}

func NewCashRegisterRepository(db *gorm.DB) *CashRegisterRepository {
	return &CashRegisterRepository{db: db}
}

func (r *CashRegisterRepository) withUser(db *gorm.DB) *gorm.DB {
	return db.Table("cash_registers cr").
		Select("cr.*, COALESCE(NULLIF(u.full_name, ''), u.username, '') AS user_name").
		Joins("LEFT JOIN users u ON u.id = cr.user_id")
}

func (r *CashRegisterRepository) List(ctx context.Context, page model.Page) ([]model.CashRegister, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CashRegister{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var registers []model.CashRegister
	err := r.db.WithContext(ctx).
		Scopes(r.withUser, paginate(page)).
		Order("cr.name ASC").
		Find(&registers).Error
	if err != nil {
		return nil, 0, err
	}
	return registers, total, nil
}

func (r *CashRegisterRepository) Get(ctx context.Context, id int64) (*model.CashRegister, error) {
	var register model.CashRegister
	err := r.db.WithContext(ctx).Scopes(r.withUser).Where("cr.id = ?", id).Take(&register).Error
	if err != nil {
		return nil, err
	}
	return &register, nil
}

func (r *CashRegisterRepository) Create(ctx context.Context, register *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(register).Error
}

func (r *CashRegisterRepository) Update(ctx context.Context, register *model.CashRegister) error {
	return r.db.WithContext(ctx).Model(&model.CashRegister{ID: register.ID}).Updates(map[string]interface{}{
		"name":       register.Name,
		"user_id":    register.UserID,
		"status":     register.Status,
		"updated_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *CashRegisterRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "cash_registers", id)
}
