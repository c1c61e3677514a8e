package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

// CategoryRepository serves both business-category catalogs; kind selects the table.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, kind model.CategoryKind, search string, page model.Page) ([]model.CategoryItem, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Table(kind.Table())
		if search = strings.TrimSpace(search); search != "" {
			db = db.Where("LOWER(name) LIKE ?", likePattern(search))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.CategoryItem
	if err := r.db.WithContext(ctx).Scopes(filter, paginate(page)).Order("name ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return withKind(items, kind), total, nil
}

func (r *CategoryRepository) ListAll(ctx context.Context, kind model.CategoryKind) ([]model.CategoryItem, error) {
	var items []model.CategoryItem
	if err := r.db.WithContext(ctx).Table(kind.Table()).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return withKind(items, kind), nil
}

func (r *CategoryRepository) Get(ctx context.Context, kind model.CategoryKind, id int64) (*model.CategoryItem, error) {
	var item model.CategoryItem
	if err := r.db.WithContext(ctx).Table(kind.Table()).Where("id = ?", id).Take(&item).Error; err != nil {
		return nil, err
	}
	item.Kind = kind
	return &item, nil
}

// GetMany returns the items found among ids keyed by id; missing ids are simply absent.
func (r *CategoryRepository) GetMany(ctx context.Context, kind model.CategoryKind, ids []int64) (map[int64]model.CategoryItem, error) {
	result := make(map[int64]model.CategoryItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var items []model.CategoryItem
	if err := r.db.WithContext(ctx).Table(kind.Table()).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range withKind(items, kind) {
		result[item.ID] = item
	}
	return result, nil
}

func (r *CategoryRepository) NameExists(ctx context.Context, kind model.CategoryKind, name string, excludeID int64) (bool, error) {
	count, err := countWhere(ctx, r.db, kind.Table(), "LOWER(name) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(name)), excludeID)
	return count > 0, err
}

func (r *CategoryRepository) Create(ctx context.Context, item *model.CategoryItem) error {
	return r.db.WithContext(ctx).Table(item.Kind.Table()).Create(item).Error
}

func (r *CategoryRepository) Update(ctx context.Context, item *model.CategoryItem) error {
	result := r.db.WithContext(ctx).Table(item.Kind.Table()).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"name":              item.Name,
		"installation_type": item.InstallationType,
		"payment_count":     item.PaymentCount,
		"updated_at":        gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, kind model.CategoryKind, id int64) error {
	return deleteByID(ctx, r.db, kind.Table(), id)
}

func (r *CategoryRepository) CountContractReferences(ctx context.Context, kind model.CategoryKind, id int64) (int64, error) {
	return countWhere(ctx, r.db, "contract_categories", "category_type = ? AND category_id = ?", kind, id)
}

func withKind(items []model.CategoryItem, kind model.CategoryKind) []model.CategoryItem {
	for i := range items {
		items[i].Kind = kind
	}
	return items
}
