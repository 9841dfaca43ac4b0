package repository

import (
	"context"
	"time"

	"foodorder/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 行ロック付き（SELECT ... FOR UPDATE）。状態を見てから書き換えるときに使う
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	// 注文番号が重複したらErrDuplicate。失敗してもTxは使える状態で返す。
	Create(ctx context.Context, order *model.Order) error
	// [from, to) に作られた注文の最大の注文番号。無ければ""
	LastNumberBetween(ctx context.Context, from, to time.Time) (string, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
}
