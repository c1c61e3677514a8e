package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

type AwardeeRepository struct {
	db *gorm.DB
}

func NewAwardeeRepository(db *gorm.DB) *AwardeeRepository {
	return &AwardeeRepository{db: db}
}

func (r *AwardeeRepository) List(ctx context.Context, search string, page model.Page) ([]model.Awardee, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if search = strings.TrimSpace(search); search == "" {
			return db
		}
		like := likePattern(search)
		return db.Where(`LOWER(first_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(last_name) LIKE ?
			OR LOWER(second_last_name) LIKE ? OR LOWER(id_number) LIKE ?
			OR LOWER(first_name || ' ' || last_name) LIKE ?`, like, like, like, like, like, like)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Awardee{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var awardees []model.Awardee
	err := r.db.WithContext(ctx).
		Scopes(filter, paginate(page)).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&awardees).Error
	if err != nil {
		return nil, 0, err
	}
	return awardees, total, nil
}

func (r *AwardeeRepository) ListAll(ctx context.Context) ([]model.Awardee, error) {
	var awardees []model.Awardee
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&awardees).Error; err != nil {
		return nil, err
	}
	return awardees, nil
}

func (r *AwardeeRepository) Get(ctx context.Context, id int64) (*model.Awardee, error) {
	var awardee model.Awardee
	if err := r.db.WithContext(ctx).First(&awardee, id).Error; err != nil {
		return nil, err
	}
	return &awardee, nil
}

// IDNumberExists checks uniqueness of id_number, ignoring the row with excludeID.
func (r *AwardeeRepository) IDNumberExists(ctx context.Context, idNumber string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Awardee{}).
		Where("id_number = ? AND id <> ?", idNumber, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *AwardeeRepository) Create(ctx context.Context, awardee *model.Awardee) error {
	return r.db.WithContext(ctx).Create(awardee).Error
}

func (r *AwardeeRepository) Update(ctx context.Context, awardee *model.Awardee) error {
	return r.db.WithContext(ctx).Model(&model.Awardee{ID: awardee.ID}).Updates(map[string]interface{}{
		"first_name":       awardee.FirstName,
		"middle_name":      awardee.MiddleName,
		"last_name":        awardee.LastName,
		"second_last_name": awardee.SecondLastName,
		"id_number":        awardee.IDNumber,
		"phone":            awardee.Phone,
		"email":            awardee.Email,
		"address":          awardee.Address,
		"updated_at":       gorm.Expr("NOW()"),
	}).Error
}

func (r *AwardeeRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "awardees", id)
}

func (r *AwardeeRepository) CountContracts(ctx context.Context, id int64) (int64, error) {
	return countWhere(ctx, r.db, "contracts", "awardee_id = ?", id)
}
