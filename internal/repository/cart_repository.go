package repository

import (
	"context"

	"foodorder/internal/domain/model"
)

// 取得系はどちらもカート行をロックする。
// 明細の追加・変更と注文確定はこのロックで順番に並ぶ。
type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserIDForUpdate(ctx context.Context, userID int64) (model.Cart, error)
	// 明細だけ消す（カート自体は残す）
	Clear(ctx context.Context, cartID int64) error
}
