package model

import "time"

// CategoryKind selects the catalog a business category item belongs to.
type CategoryKind string

const (
	CategoryInternal CategoryKind = "internal"
	CategoryExternal CategoryKind = "external"
)

func (k CategoryKind) Valid() bool {
	return k == CategoryInternal || k == CategoryExternal
}

func (k CategoryKind) Table() string {
	if k == CategoryExternal {
		return "external_items"
	}
	return "internal_items"
}

type CategoryItem struct {
	ID               int64        `gorm:"primaryKey" json:"id"`
	Kind             CategoryKind `gorm:"-" json:"type"`
	Name             string       `gorm:"column:name" json:"name"`
	InstallationType string       `gorm:"column:installation_type" json:"installation_type"`
	PaymentCount     int          `gorm:"column:payment_count" json:"payment_count"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
