package db

import (
	"fmt"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		// 一意制約違反などをgorm.ErrDuplicatedKeyに変換
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate は全テーブルを作る。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.Topping{},
		&model.SideOption{},
		&model.Favorite{},
		&model.Cart{},
		&model.CartItem{},
		&model.CartItemTopping{},
		&model.CartItemSideOption{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderItemTopping{},
		&model.OrderItemSideOption{},
		&model.OrderHistory{},
		&model.AuditLog{},
	)
}
