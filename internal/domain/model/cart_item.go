package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// 追加時点の価格（商品・トッピング・サイド）を必ず保存。
type CartItem struct {
	ID                int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID            int64                `gorm:"not null;index" json:"cart_id"`
	ProductID         int64                `gorm:"not null;index" json:"product_id"`
	Quantity          int64                `gorm:"not null" json:"quantity"`
	Spice             decimal.Decimal      `gorm:"type:numeric;not null;default:0" json:"spice"`
	UnitPriceSnapshot decimal.Decimal      `gorm:"type:numeric;not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	Notes             string               `gorm:"type:varchar(500)" json:"notes"`
	Toppings          []CartItemTopping    `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE" json:"toppings"`
	SideOptions       []CartItemSideOption `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE" json:"side_options"`
	CreatedAt         time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time            `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type CartItemTopping struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartItemID        int64           `gorm:"not null;index" json:"cart_item_id"`
	ToppingID         int64           `gorm:"not null" json:"topping_id"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price_snapshot"`
}

type CartItemSideOption struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartItemID        int64           `gorm:"not null;index" json:"cart_item_id"`
	SideOptionID      int64           `gorm:"not null" json:"side_option_id"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price_snapshot"`
}

// トッピング/サイドが付いていない明細か（同一商品の数量加算はこの場合だけ）
func (ci CartItem) IsPlain() bool {
	return len(ci.Toppings) == 0 && len(ci.SideOptions) == 0 && ci.Spice.IsZero()
}

func (ci CartItem) ToppingPrices() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(ci.Toppings))
	for _, t := range ci.Toppings {
		out = append(out, t.UnitPriceSnapshot)
	}
	return out
}

func (ci CartItem) SideOptionPrices() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(ci.SideOptions))
	for _, s := range ci.SideOptions {
		out = append(out, s.UnitPriceSnapshot)
	}
	return out
}
