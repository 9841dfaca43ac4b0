package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

const DefaultCountry = "Jordan"

// 配送先（注文に埋め込む）
type DeliveryAddress struct {
	Street     string   `gorm:"type:varchar(255);not null" json:"street"`
	City       string   `gorm:"type:varchar(100);not null" json:"city"`
	PostalCode string   `gorm:"type:varchar(20)" json:"postal_code"`
	Country    string   `gorm:"type:varchar(100);not null" json:"country"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type Order struct {
	ID                    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                int64           `gorm:"not null;index:idx_orders_user_created,priority:1" json:"user_id"`
	OrderNumber           string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_number"`
	Status                OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod         PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus         PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	TotalPrice            decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
	DeliveryAddress       DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	Notes                 string          `gorm:"type:varchar(500)" json:"notes"`
	EstimatedDeliveryTime *time.Time      `json:"estimated_delivery_time"`
	CreatedAt             time.Time       `gorm:"not null;index;index:idx_orders_user_created,priority:2" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"not null" json:"updated_at"`
}
