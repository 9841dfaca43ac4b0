package usecase

import (
	"context"
	"time"

	"foodorder/internal/domain/model"
	"foodorder/internal/domain/pricing"
	repo "foodorder/internal/repository"
)

type AddonOutput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type OrderItemOutput struct {
	ID          int64         `json:"id"`
	ProductID   int64         `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   string        `json:"unit_price"`
	LineTotal   string        `json:"line_total"`
	Spice       string        `json:"spice"`
	Notes       string        `json:"notes,omitempty"`
	Toppings    []AddonOutput `json:"toppings"`
	SideOptions []AddonOutput `json:"side_options"`
}

type OrderOutput struct {
	ID                    int64                 `json:"id"`
	OrderNumber           string                `json:"order_number"`
	UserID                int64                 `json:"user_id"`
	Status                model.OrderStatus     `json:"status"`
	PaymentMethod         model.PaymentMethod   `json:"payment_method"`
	PaymentStatus         model.PaymentStatus   `json:"payment_status"`
	TotalPrice            string                `json:"total_price"`
	DeliveryAddress       model.DeliveryAddress `json:"delivery_address"`
	Notes                 string                `json:"notes,omitempty"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	Items                 []OrderItemOutput     `json:"items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 名前解決用
type addonNames struct {
	products    map[int64]string
	toppings    map[int64]string
	sideOptions map[int64]string
}

// 明細から参照している商品/トッピング/サイドの名前をまとめて引く
func loadAddonNames(ctx context.Context, r repo.TxRepos, items []model.OrderItem) (addonNames, error) {
	var productIDs, toppingIDs, sideIDs []int64
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
		for _, t := range it.Toppings {
			toppingIDs = append(toppingIDs, t.ToppingID)
		}
		for _, s := range it.SideOptions {
			sideIDs = append(sideIDs, s.SideOptionID)
		}
	}

	names := addonNames{
		products:    map[int64]string{},
		toppings:    map[int64]string{},
		sideOptions: map[int64]string{},
	}

	products, err := r.Products().FindByIDs(ctx, productIDs)
	if err != nil {
		return names, err
	}
	for _, p := range products {
		names.products[p.ID] = p.Name
	}

	toppings, err := r.Toppings().FindByIDs(ctx, toppingIDs)
	if err != nil {
		return names, err
	}
	for _, t := range toppings {
		names.toppings[t.ID] = t.Name
	}

	sides, err := r.SideOptions().FindByIDs(ctx, sideIDs)
	if err != nil {
		return names, err
	}
	for _, s := range sides {
		names.sideOptions[s.ID] = s.Name
	}
	return names, nil
}

// 注文1件分（明細込み）を読み込む
func loadOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, internalError(err)
	}
	names, err := loadAddonNames(ctx, r, items)
	if err != nil {
		return OrderOutput{}, internalError(err)
	}
	return toOrderOutput(o, items, names), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, names addonNames) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		toppings := make([]AddonOutput, 0, len(it.Toppings))
		for _, t := range it.Toppings {
			toppings = append(toppings, AddonOutput{ID: t.ToppingID, Name: names.toppings[t.ToppingID]})
		}
		sides := make([]AddonOutput, 0, len(it.SideOptions))
		for _, s := range it.SideOptions {
			sides = append(sides, AddonOutput{ID: s.SideOptionID, Name: names.sideOptions[s.SideOptionID]})
		}

		outItems = append(outItems, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: names.products[it.ProductID],
			Quantity:    it.Quantity,
			UnitPrice:   pricing.Display(it.UnitPrice),
			LineTotal:   pricing.Display(it.LineTotal()),
			Spice:       it.Spice.String(),
			Notes:       it.Notes,
			Toppings:    toppings,
			SideOptions: sides,
		})
	}

	return OrderOutput{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		UserID:                o.UserID,
		Status:                o.Status,
		PaymentMethod:         o.PaymentMethod,
		PaymentStatus:         o.PaymentStatus,
		TotalPrice:            pricing.Display(o.TotalPrice),
		DeliveryAddress:       o.DeliveryAddress,
		Notes:                 o.Notes,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Items:                 outItems,
	}
}
