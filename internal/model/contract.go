package model

import "time"

type ContractType string

const (
	ContractSimultaneous ContractType = "simultaneous"
	ContractAdvance      ContractType = "advance"
)

func (t ContractType) Label() string {
	switch t {
	case ContractSimultaneous:
		return "Simultáneo"
	case ContractAdvance:
		return "Anticipado"
	}
	return string(t)
}

type ContractMode string

const (
	ContractMonthly ContractMode = "monthly"
	ContractWeekly  ContractMode = "weekly"
)

func (m ContractMode) Label() string {
	switch m {
	case ContractMonthly:
		return "Mensual"
	case ContractWeekly:
		return "Semanal"
	}
	return string(m)
}

type Contract struct {
	ID           int64        `gorm:"primaryKey" json:"id"`
	AwardeeID    int64        `gorm:"column:awardee_id" json:"awardee_id"`
	FiscalYearID int64        `gorm:"column:fiscal_year_id" json:"fiscal_year_id"`
	StartDate    time.Time    `gorm:"column:start_date" json:"start_date"`
	EndDate      time.Time    `gorm:"column:end_date" json:"end_date"`
	Type         ContractType `gorm:"column:type" json:"type"`
	Mode         ContractMode `gorm:"column:contract_mode" json:"contract_mode"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	AwardeeName     string `gorm:"->;column:awardee_name" json:"awardee_name,omitempty"`
	AwardeeIDNumber string `gorm:"->;column:awardee_id_number" json:"awardee_id_number,omitempty"`
	FiscalYear      int    `gorm:"->;column:fiscal_year" json:"fiscal_year,omitempty"`

	Categories []ContractCategory `gorm:"-" json:"categories,omitempty"`
	Locations  []ContractLocation `gorm:"-" json:"locations,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

// ContractCategory caches the catalog item values at the time the contract was saved.
type ContractCategory struct {
	ID               int64        `gorm:"primaryKey" json:"id"`
	ContractID       int64        `gorm:"column:contract_id" json:"contract_id"`
	CategoryType     CategoryKind `gorm:"column:category_type" json:"type"`
	CategoryID       int64        `gorm:"column:category_id" json:"category_id"`
	Name             string       `gorm:"column:name" json:"name"`
	PaymentCount     int          `gorm:"column:payment_count" json:"payment_count"`
	InstallationType string       `gorm:"column:installation_type" json:"installation_type"`
}

func (ContractCategory) TableName() string { return "contract_categories" }

type ContractLocation struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	ContractID int64 `gorm:"column:contract_id" json:"contract_id"`
	StallID    int64 `gorm:"column:stall_id" json:"stall_id"`

	StallCode  string `gorm:"->;column:stall_code" json:"stall_code,omitempty"`
	SectorID   int64  `gorm:"->;column:sector_id" json:"sector_id,omitempty"`
	SectorName string `gorm:"->;column:sector_name" json:"sector_name,omitempty"`
	ZoneID     int64  `gorm:"->;column:zone_id" json:"zone_id,omitempty"`
	ZoneName   string `gorm:"->;column:zone_name" json:"zone_name,omitempty"`
}

func (ContractLocation) TableName() string { return "contract_locations" }

// ContractFilter narrows contract listings.
type ContractFilter struct {
	Search    string
	AwardeeID int64
}
