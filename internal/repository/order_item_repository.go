package repository

import (
	"context"

	"foodorder/internal/domain/model"
)

type OrderItemRepository interface {
	// トッピング/サイドの参照も一緒に保存
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
