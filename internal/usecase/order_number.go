package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"foodorder/internal/domain/model"
	"foodorder/internal/domain/ordernumber"
	repo "foodorder/internal/repository"
)

// OrderNumberAllocator は注文番号を採番して注文をINSERTする。
// 連番が重複したらランダム4桁で1回だけやり直す。
type OrderNumberAllocator struct {
	random func(day time.Time) string
}

func NewOrderNumberAllocator() *OrderNumberAllocator {
	return &OrderNumberAllocator{
		random: func(day time.Time) string { return ordernumber.Random(day, nil) },
	}
}

// Create はorder.OrderNumberを埋めて保存する。order.CreatedAtの日付で採番。
func (a *OrderNumberAllocator) Create(ctx context.Context, orders repo.OrderRepository, order *model.Order) error {
	day := order.CreatedAt
	from, to := ordernumber.DayRange(day)

	last, err := orders.LastNumberBetween(ctx, from, to)
	if err != nil {
		return internalError(err)
	}
	number, ok := ordernumber.Next(day, last)
	if !ok {
		// 連番を使い切った日はランダム4桁
		number = a.random(day)
	}
	order.OrderNumber = number

	err = orders.Create(ctx, order)
	if !errors.Is(err, repo.ErrDuplicate) {
		if err != nil {
			return internalError(err)
		}
		return nil
	}

	// 同時注文で同じ番号になった
	order.OrderNumber = a.random(day)
	err = orders.Create(ctx, order)
	if errors.Is(err, repo.ErrDuplicate) {
		return NewHTTPError(http.StatusConflict, "could not allocate order number, please retry")
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}
