package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/model"
)

func paginate(page model.Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Size)
	}
}

func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(strings.TrimSpace(search)))
	return "%" + escaped + "%"
}

func countWhere(ctx context.Context, db *gorm.DB, table, where string, args ...interface{}) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Table(table).Where(where, args...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// deleteByID returns gorm.ErrRecordNotFound when no row was removed.
func deleteByID(ctx context.Context, db *gorm.DB, table string, id int64) error {
	result := db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
