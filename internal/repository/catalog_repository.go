package repository

import (
	"context"

	"foodorder/internal/domain/model"
)

// 商品一覧の絞り込み
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	Sort       string
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id int64) error
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id int64) error
}

type ToppingRepository interface {
	List(ctx context.Context) ([]model.Topping, error)
	FindByID(ctx context.Context, id int64) (model.Topping, error)
	// 存在するものだけ返す
	FindByIDs(ctx context.Context, ids []int64) ([]model.Topping, error)
	Create(ctx context.Context, t *model.Topping) error
	Update(ctx context.Context, t *model.Topping) error
	Delete(ctx context.Context, id int64) error
}

type SideOptionRepository interface {
	List(ctx context.Context) ([]model.SideOption, error)
	FindByID(ctx context.Context, id int64) (model.SideOption, error)
	// 存在するものだけ返す
	FindByIDs(ctx context.Context, ids []int64) ([]model.SideOption, error)
	Create(ctx context.Context, s *model.SideOption) error
	Update(ctx context.Context, s *model.SideOption) error
	Delete(ctx context.Context, id int64) error
}

type FavoriteRepository interface {
	Find(ctx context.Context, userID, productID int64) (model.Favorite, error)
	Create(ctx context.Context, f *model.Favorite) error
	Delete(ctx context.Context, id int64) error
	ListByUserID(ctx context.Context, userID int64) ([]model.Product, error)
}
