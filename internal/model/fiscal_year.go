package model

import "time"

type FiscalYearStatus string

const (
	FiscalYearActive   FiscalYearStatus = "active"
	FiscalYearInactive FiscalYearStatus = "inactive"
)

type FiscalYear struct {
	ID        int64            `gorm:"primaryKey" json:"id"`
	Year      int              `gorm:"column:year" json:"year"`
	StartDate time.Time        `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time        `gorm:"column:end_date" json:"end_date"`
	Status    FiscalYearStatus `gorm:"column:status" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (FiscalYear) TableName() string { return "fiscal_years" }

// Contains reports whether day falls inside the fiscal year, both ends inclusive.
func (f FiscalYear) Contains(day time.Time) bool {
	return !day.Before(f.StartDate) && !day.After(f.EndDate)
}
