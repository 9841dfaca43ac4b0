package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	Price       decimal.Decimal `gorm:"type:numeric;not null;default:0;index" json:"price"`
	Rating      decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"rating"`
	Image       *string         `gorm:"type:varchar(255)" json:"image"`
	CreatorID   int64           `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
