package repository

import (
	"context"

	"foodorder/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// カートとカート明細の両方を実装
type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得し、無ければ作成。取得した行はロックする
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	db := r.db.WithContext(ctx)

	// 同時作成はuser_idの一意制約で片方が何もしない
	newCart := model.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&newCart).Error; err != nil {
		return model.Cart{}, translate(err)
	}

	return r.FindByUserIDForUpdate(ctx, userID)
}

// ユーザーのカートを行ロック付きで取得
func (r *CartGormRepository) FindByUserIDForUpdate(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	db := r.db.WithContext(ctx)
	itemIDs := db.Model(&model.CartItem{}).Select("id").Where("cart_id = ?", cartID)

	if err := db.Where("cart_item_id IN (?)", itemIDs).Delete(&model.CartItemTopping{}).Error; err != nil {
		return err
	}
	if err := db.Where("cart_item_id IN (?)", itemIDs).Delete(&model.CartItemSideOption{}).Error; err != nil {
		return err
	}
	//cart_itemsを全削除
	return db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}

// カート明細を一覧取得（トッピング/サイド込み）
func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Toppings").
		Preload("SideOptions").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

// 明細を取得
func (r *CartGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Toppings").
		Preload("SideOptions").
		First(&item, cartItemID).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}
	return item, nil
}

// 明細を作成。トッピング/サイドも一緒にINSERTされる
func (r *CartGormRepository) Create(ctx context.Context, item *model.CartItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// 同一商品は数量加算（読んでから書かない）
func (r *CartGormRepository) IncrementQuantity(ctx context.Context, cartItemID int64, addQty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", addQty))
	return affected(res)
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)
	return affected(res)
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_item_id = ?", cartItemID).Delete(&model.CartItemTopping{}).Error; err != nil {
		return err
	}
	if err := db.Where("cart_item_id = ?", cartItemID).Delete(&model.CartItemSideOption{}).Error; err != nil {
		return err
	}
	return affected(db.Delete(&model.CartItem{}, cartItemID))
}

//cartItemが、そのuserのカートに属しているかを判定
func (r *CartGormRepository) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Joins("join carts on carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", cartItemID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
