package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"foodorder/internal/domain/model"
	"foodorder/internal/domain/pricing"
	repo "foodorder/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("foodorder/internal/usecase")

const (
	notePlaced          = "Order placed successfully"
	noteCancelledByUser = "Order cancelled by customer"
)

type OrderUsecase struct {
	tx      repo.TransactionManager
	numbers *OrderNumberAllocator
	clock   Clock
}

func NewOrderUsecase(tx repo.TransactionManager, numbers *OrderNumberAllocator, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, numbers: numbers, clock: clock}
}

type PlaceOrderInput struct {
	PaymentMethod         model.PaymentMethod
	DeliveryAddress       model.DeliveryAddress
	Notes                 string
	EstimatedDeliveryTime *time.Time
}

// spanを閉じる。エラーなら記録する
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// PlaceOrder はカートから注文を作る。
// カート読み込みからカートを空にするまで1つのTxで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (out OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.PlaceOrder",
		trace.WithAttributes(attribute.Int64("user.id", actor.UserID)))
	defer func() { endSpan(span, err) }()

	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if !in.PaymentMethod.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}
	addr := in.DeliveryAddress
	addr.Street = strings.TrimSpace(addr.Street)
	addr.City = strings.TrimSpace(addr.City)
	if addr.Street == "" || addr.City == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "delivery address requires street and city")
	}
	if strings.TrimSpace(addr.Country) == "" {
		addr.Country = model.DefaultCountry
	}

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得（ロックして二重送信と明細追加を待たせる）
		cart, err := r.Carts().FindByUserIDForUpdate(ctx, actor.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return errEmptyCart()
		}
		if err != nil {
			return internalError(err)
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return internalError(err)
		}
		if len(cartItems) == 0 {
			return errEmptyCart()
		}

		//明細ごとに金額計算（価格はカートに入れた時点のもの）
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		lineTotals := make([]decimal.Decimal, 0, len(cartItems))
		for _, ci := range cartItems {
			if _, err := r.Products().FindByID(ctx, ci.ProductID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return errNotFound("product")
				}
				return internalError(err)
			}

			total, err := pricing.LineTotal(pricing.LineInput{
				UnitPrice:        ci.UnitPriceSnapshot,
				Quantity:         ci.Quantity,
				ToppingPrices:    ci.ToppingPrices(),
				SideOptionPrices: ci.SideOptionPrices(),
				Spice:            ci.Spice,
			})
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, err.Error())
			}
			lineTotals = append(lineTotals, total)

			orderItems = append(orderItems, toOrderItem(ci, pricing.EffectiveUnitPrice(total, ci.Quantity)))
		}

		now := u.clock.Now()
		order := model.Order{
			UserID:                actor.UserID,
			Status:                model.OrderStatusPending,
			PaymentMethod:         in.PaymentMethod,
			PaymentStatus:         model.PaymentStatusPending,
			TotalPrice:            pricing.CartTotal(lineTotals...),
			DeliveryAddress:       addr,
			Notes:                 strings.TrimSpace(in.Notes),
			EstimatedDeliveryTime: in.EstimatedDeliveryTime,
			CreatedAt:             now,
			UpdatedAt:             now,
		}

		// 注文番号を採番して作成
		if err := u.numbers.Create(ctx, r.Orders(), &order); err != nil {
			return err
		}
		span.SetAttributes(attribute.String("order.number", order.OrderNumber))

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return internalError(err)
		}

		// 最初の履歴
		if err := r.OrderHistory().Append(ctx, &model.OrderHistory{
			OrderID:     order.ID,
			Status:      model.OrderStatusPending,
			Note:        notePlaced,
			ActorUserID: &actor.UserID,
			CreatedAt:   now,
		}); err != nil {
			return internalError(err)
		}

		//カートは残して明細だけクリア
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return internalError(err)
		}

		names, err := loadAddonNames(ctx, r, orderItems)
		if err != nil {
			return internalError(err)
		}
		out = toOrderOutput(order, orderItems, names)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderItem(ci model.CartItem, unitPrice decimal.Decimal) model.OrderItem {
	toppings := make([]model.OrderItemTopping, 0, len(ci.Toppings))
	for _, t := range ci.Toppings {
		toppings = append(toppings, model.OrderItemTopping{ToppingID: t.ToppingID})
	}
	sides := make([]model.OrderItemSideOption, 0, len(ci.SideOptions))
	for _, s := range ci.SideOptions {
		sides = append(sides, model.OrderItemSideOption{SideOptionID: s.SideOptionID})
	}
	return model.OrderItem{
		ProductID:   ci.ProductID,
		Quantity:    ci.Quantity,
		UnitPrice:   unitPrice,
		Spice:       ci.Spice,
		Notes:       ci.Notes,
		Toppings:    toppings,
		SideOptions: sides,
	}
}

// 本人か、注文閲覧権限があれば見られる
func (u *OrderUsecase) GetOrder(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if !actor.OwnsOr(o.UserID, model.PermReadOrders) {
			return errForbidden()
		}
		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, actor Actor, page, limit int) (OrderListOutput, error) {
	if !actor.Authenticated() {
		return OrderListOutput{}, errUnauthorized()
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	out := OrderListOutput{Page: page, Limit: limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, actor.UserID, page, limit)
		if err != nil {
			return internalError(err)
		}
		out.Total = total
		out.Items, err = loadOrderOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// CancelOrder は本人だけ。pending/processingのときだけキャンセルできる。
func (u *OrderUsecase) CancelOrder(ctx context.Context, actor Actor, orderID int64, reason string) (out OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.CancelOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer func() { endSpan(span, err) }()

	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	note := strings.TrimSpace(reason)
	if note == "" {
		note = noteCancelledByUser
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrderForUpdate(ctx, r, orderID)
		if err != nil {
			return err
		}
		if o.UserID != actor.UserID {
			return errForbidden()
		}
		if !o.Status.Cancellable() {
			return errInvalidTransition(o.Status, model.OrderStatusCancelled)
		}

		if err := appendStatusChange(ctx, r, o.ID, model.OrderStatusCancelled, note, actor.UserID, u.clock.Now()); err != nil {
			return err
		}
		o.Status = model.OrderStatusCancelled
		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdatePaymentStatus は本人か支払い更新権限を持つユーザー。
// 履歴には現在の注文ステータスと新しい支払いステータスを残す。
func (u *OrderUsecase) UpdatePaymentStatus(ctx context.Context, actor Actor, orderID int64, status model.PaymentStatus) (out OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.UpdatePaymentStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("payment.status", string(status))))
	defer func() { endSpan(span, err) }()

	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !status.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrderForUpdate(ctx, r, orderID)
		if err != nil {
			return err
		}
		if !actor.OwnsOr(o.UserID, model.PermUpdatePaymentStatus) {
			return errForbidden()
		}

		// 同じなら何もしない
		if o.PaymentStatus != status {
			ps := status
			if err := r.OrderHistory().Append(ctx, &model.OrderHistory{
				OrderID:       o.ID,
				Status:        o.Status,
				PaymentStatus: &ps,
				Note:          "Payment status changed to " + string(status),
				ActorUserID:   &actor.UserID,
				CreatedAt:     u.clock.Now(),
			}); err != nil {
				return internalError(err)
			}
			if err := r.Orders().UpdatePaymentStatus(ctx, o.ID, status); err != nil {
				return mapRepoErr(err, "order")
			}
			o.PaymentStatus = status
		}

		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func findOrder(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, mapRepoErr(err, "order")
	}
	return o, nil
}

// 状態を見てから書き換える処理用
func findOrderForUpdate(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return model.Order{}, mapRepoErr(err, "order")
	}
	return o, nil
}

func loadOrderOutputs(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out, err := loadOrderOutput(ctx, r, o)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// 履歴を足してから注文のステータスを更新する
func appendStatusChange(ctx context.Context, r repo.TxRepos, orderID int64, status model.OrderStatus, note string, actorID int64, at time.Time) error {
	if err := r.OrderHistory().Append(ctx, &model.OrderHistory{
		OrderID:     orderID,
		Status:      status,
		Note:        note,
		ActorUserID: &actorID,
		CreatedAt:   at,
	}); err != nil {
		return internalError(err)
	}
	if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
		return mapRepoErr(err, "order")
	}
	return nil
}

// repositoryのエラーをHTTPErrorに
func mapRepoErr(err error, what string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errNotFound(what)
	case errors.Is(err, repo.ErrDuplicate):
		return NewHTTPError(http.StatusConflict, what+" already exists")
	default:
		return internalError(err)
	}
}
