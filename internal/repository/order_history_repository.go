package repository

import (
	"context"

	"foodorder/internal/domain/model"
)

// 追記のみ。更新・削除は持たない。
type OrderHistoryRepository interface {
	Append(ctx context.Context, entry *model.OrderHistory) error
	// 古い順
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderHistory, error)
}
