package model

import (
	"strings"
	"time"
)

// Awardee is the natural person who holds a stall lease.
type Awardee struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"column:first_name" json:"first_name"`
	MiddleName     string    `gorm:"column:middle_name" json:"middle_name"`
	LastName       string    `gorm:"column:last_name" json:"last_name"`
	SecondLastName string    `gorm:"column:second_last_name" json:"second_last_name"`
	IDNumber       string    `gorm:"column:id_number" json:"id_number"`
	Phone          string    `gorm:"column:phone" json:"phone"`
	Email          string    `gorm:"column:email" json:"email"`
	Address        string    `gorm:"column:address" json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Awardee) TableName() string { return "awardees" }

func (a Awardee) FullName() string {
	parts := []string{a.FirstName, a.MiddleName, a.LastName, a.SecondLastName}
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return strings.Join(result, " ")
}
