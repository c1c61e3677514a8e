package model

import "time"

type Zone struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SectorCount int64 `gorm:"->;column:sector_count" json:"sector_count"`
	StallCount  int64 `gorm:"->;column:stall_count" json:"stall_count"`
}

func (Zone) TableName() string { return "zones" }

type Sector struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ZoneID    int64     `gorm:"column:zone_id" json:"zone_id"`
	Name      string    `gorm:"column:name" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	StallCount int64 `gorm:"->;column:stall_count" json:"stall_count"`
}

func (Sector) TableName() string { return "sectors" }

type Stall struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	SectorID    int64     `gorm:"column:sector_id" json:"sector_id"`
	Code        string    `gorm:"column:code" json:"code"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	SectorName string `gorm:"->;column:sector_name" json:"sector_name,omitempty"`
	ZoneID     int64  `gorm:"->;column:zone_id" json:"zone_id,omitempty"`
	ZoneName   string `gorm:"->;column:zone_name" json:"zone_name,omitempty"`
}

func (Stall) TableName() string { return "stalls" }
