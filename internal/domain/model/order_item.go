package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。作成後は更新しない。
// UnitPriceはトッピング/サイド/辛さ込みの1個あたり価格（UnitPrice*Quantity = 明細合計）。
type OrderItem struct {
	ID          int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64                 `gorm:"not null;index" json:"order_id"`
	ProductID   int64                 `gorm:"not null;index" json:"product_id"`
	Quantity    int64                 `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal       `gorm:"type:numeric;not null" json:"unit_price"`
	Spice       decimal.Decimal       `gorm:"type:numeric;not null;default:0" json:"spice"`
	Notes       string                `gorm:"type:varchar(500)" json:"notes"`
	Toppings    []OrderItemTopping    `gorm:"foreignKey:OrderItemID" json:"toppings"`
	SideOptions []OrderItemSideOption `gorm:"foreignKey:OrderItemID" json:"side_options"`
	CreatedAt   time.Time             `gorm:"not null;autoCreateTime" json:"created_at"`
}

type OrderItemTopping struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderItemID int64 `gorm:"not null;index" json:"order_item_id"`
	ToppingID   int64 `gorm:"not null" json:"topping_id"`
}

type OrderItemSideOption struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderItemID  int64 `gorm:"not null;index" json:"order_item_id"`
	SideOptionID int64 `gorm:"not null" json:"side_option_id"`
}

func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}
