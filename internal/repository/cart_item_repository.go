package repository

import (
	"context"

	"foodorder/internal/domain/model"
)

type CartItemRepository interface {
	// トッピング/サイドもpreloadして返す
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	// トッピング/サイドも一緒に保存
	Create(ctx context.Context, item *model.CartItem) error
	// 同一商品はプラス（UPDATE ... SET quantity = quantity + ?）
	IncrementQuantity(ctx context.Context, cartItemID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
