package repository

import (
	"context"

	"foodorder/internal/domain/model"

	"gorm.io/gorm"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) Find(ctx context.Context, userID, productID int64) (model.Favorite, error) {
	var f model.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&f).Error
	if err != nil {
		return model.Favorite{}, translate(err)
	}
	return f, nil
}

func (r *FavoriteGormRepository) Create(ctx context.Context, f *model.Favorite) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *FavoriteGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Favorite{}, id))
}

// お気に入りの商品（新しい順）
func (r *FavoriteGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Joins("join favorites on favorites.product_id = products.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.id desc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}
