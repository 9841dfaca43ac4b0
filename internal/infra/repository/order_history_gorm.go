package repository

import (
	"context"

	"foodorder/internal/domain/model"

	"gorm.io/gorm"
)

type OrderHistoryGormRepository struct {
	db *gorm.DB
}

func NewOrderHistoryGormRepository(db *gorm.DB) *OrderHistoryGormRepository {
	return &OrderHistoryGormRepository{db: db}
}

func (r *OrderHistoryGormRepository) Append(ctx context.Context, entry *model.OrderHistory) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

// 同時刻はid順
func (r *OrderHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderHistory, error) {
	var entries []model.OrderHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").Order("id asc").
		Find(&entries).Error
	if err != nil {
		return []model.OrderHistory{}, err
	}
	return entries, nil
}
