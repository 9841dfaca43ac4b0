package model

import "time"

// 注文の追跡履歴。追記のみ。
// 支払いステータス変更のときはPaymentStatusが入る。
type OrderHistory struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64          `gorm:"not null;index:idx_order_history_order_ts,priority:1" json:"order_id"`
	Status        OrderStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus *PaymentStatus `gorm:"type:varchar(20)" json:"payment_status,omitempty"`
	Note          string         `gorm:"type:varchar(500)" json:"note"`
	ActorUserID   *int64         `gorm:"index" json:"actor_user_id"`
	CreatedAt     time.Time      `gorm:"not null;index:idx_order_history_order_ts,priority:2" json:"timestamp"`
}
