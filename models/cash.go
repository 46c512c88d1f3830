package models

import "time"

// Income/expense ledger, independent of attendance.
type CashTransaction struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TransactionDate string    `json:"transaction_date" gorm:"size:10;not null;index"`
	Type            string    `json:"type" gorm:"size:10;not null"` // income | expense
	Amount          float64   `json:"amount" gorm:"not null"`
	CategoryCode    string    `json:"category_code" gorm:"size:10;not null;index"`
	Description     string    `json:"description" gorm:"type:text"`
	PaymentMethod   string    `json:"payment_method" gorm:"size:20"`
	ReferenceNumber string    `json:"reference_number" gorm:"size:40"`
	CreatedBy       uint      `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type CashCategory struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Code     string `json:"code" gorm:"size:10;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:100;not null"`
	Type     string `json:"type" gorm:"size:10;not null"` // income | expense
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
