package model

import "time"

type CashRegisterStatus string

const (
	CashRegisterActive      CashRegisterStatus = "active"
	CashRegisterInactive    CashRegisterStatus = "inactive"
	CashRegisterMaintenance CashRegisterStatus = "maintenance"
)

type CashRegister struct {
	ID        int64              `gorm:"primaryKey" json:"id"`
	Name      string             `gorm:"column:name" json:"name"`
	UserID    *int64             `gorm:"column:user_id" json:"user_id"`
	Status    CashRegisterStatus `gorm:"column:status" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// UserName is filled by listing queries.
	UserName string `gorm:"->;column:user_name" json:"user_name,omitempty"`
}

func (CashRegister) TableName() string { return "cash_registers" }
