package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// トッピング
type Topping struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"price"`
	Image     *string         `gorm:"type:varchar(255)" json:"image"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// サイドメニュー
type SideOption struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"price"`
	Image     *string         `gorm:"type:varchar(255)" json:"image"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
