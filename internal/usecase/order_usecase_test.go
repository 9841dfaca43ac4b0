package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var customer = Actor{UserID: 7, Role: model.RoleUser}

func validPlaceOrderInput() PlaceOrderInput {
	return PlaceOrderInput{
		PaymentMethod:   model.PaymentMethodCash,
		DeliveryAddress: model.DeliveryAddress{Street: " 1 Main St ", City: "Amman"},
		Notes:           "ring twice",
	}
}

func newOrderUC(r *txReposMock) (*OrderUsecase, *TxManagerMock) {
	tx := newTxManager(r)
	return NewOrderUsecase(tx, NewOrderNumberAllocator(), fixedClock{testNow}), tx
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()
	uc, tx := newOrderUC(r)

	r.carts.On("FindByUserIDForUpdate", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{{
		ID:                1,
		CartID:            10,
		ProductID:         100,
		Quantity:          2,
		Spice:             dec("0.5"),
		UnitPriceSnapshot: dec("10"),
		Toppings:          []model.CartItemTopping{{ToppingID: 5, UnitPriceSnapshot: dec("1.5")}},
		SideOptions:       []model.CartItemSideOption{{SideOptionID: 6, UnitPriceSnapshot: dec("2")}},
	}}, nil)
	// 商品マスタの現在価格は使わない
	r.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100, Name: "Burger", Price: dec("99")}, nil)
	r.allowNameLookups(
		[]model.Product{{ID: 100, Name: "Burger"}},
		[]model.Topping{{ID: 5, Name: "Cheese"}},
		[]model.SideOption{{ID: 6, Name: "Fries"}},
	)

	r.orders.On("LastNumberBetween", mock.Anything, mock.Anything, mock.Anything).Return("ORD-260307-0004", nil)
	r.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Order).ID = 55 }).
		Return(nil)
	r.orderItems.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].UnitPrice.Equal(dec("20.25")) && items[0].Quantity == 2
	})).Return(nil)
	r.orderHistory.On("Append", mock.Anything, mock.MatchedBy(func(h *model.OrderHistory) bool {
		return h.OrderID == 55 && h.Status == model.OrderStatusPending && h.Note == "Order placed successfully"
	})).Return(nil)
	r.carts.On("Clear", mock.Anything, int64(10)).Return(nil)

	out, err := uc.PlaceOrder(ctx, customer, validPlaceOrderInput())
	require.NoError(t, err)

	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, "ORD-260307-0005", out.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, model.PaymentStatusPending, out.PaymentStatus)
	// (10*2 + 1.5*2 + 2*2) * 1.5
	assert.Equal(t, "40.50", out.TotalPrice)
	assert.Equal(t, "1 Main St", out.DeliveryAddress.Street)
	assert.Equal(t, model.DefaultCountry, out.DeliveryAddress.Country)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Burger", out.Items[0].ProductName)
	assert.Equal(t, "20.25", out.Items[0].UnitPrice)
	assert.Equal(t, "40.50", out.Items[0].LineTotal)
	assert.Equal(t, []AddonOutput{{ID: 5, Name: "Cheese"}}, out.Items[0].Toppings)
	assert.Equal(t, []AddonOutput{{ID: 6, Name: "Fries"}}, out.Items[0].SideOptions)

	tx.AssertNumberOfCalls(t, "WithinTx", 1)
	r.carts.AssertCalled(t, "Clear", mock.Anything, int64(10))
	r.orderHistory.AssertExpectations(t)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	t.Run("no cart", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.carts.On("FindByUserIDForUpdate", mock.Anything, int64(7)).Return(nil, repo.ErrNotFound)

		_, err := uc.PlaceOrder(ctx, customer, validPlaceOrderInput())
		status, code := statusOf(err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, CodeEmptyCart, code)
	})

	t.Run("no lines", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.carts.On("FindByUserIDForUpdate", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
		r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

		_, err := uc.PlaceOrder(ctx, customer, validPlaceOrderInput())
		_, code := statusOf(err)
		assert.Equal(t, CodeEmptyCart, code)
		r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// 先に確定した注文がカートを空にしていれば、ロック後の読み直しで空カートになる
func TestPlaceOrder_DoubleSubmitSeesClearedCart(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()
	uc, _ := newOrderUC(r)

	r.carts.On("FindByUserIDForUpdate", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	_, err := uc.PlaceOrder(ctx, customer, validPlaceOrderInput())
	_, code := statusOf(err)
	assert.Equal(t, CodeEmptyCart, code)
	r.carts.AssertCalled(t, "FindByUserIDForUpdate", mock.Anything, int64(7))
	r.orders.AssertNotCalled(t, "LastNumberBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_ProductGone(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()
	uc, _ := newOrderUC(r)

	r.carts.On("FindByUserIDForUpdate", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, ProductID: 100, Quantity: 1, UnitPriceSnapshot: dec("5")},
	}, nil)
	r.products.On("FindByID", mock.Anything, int64(100)).Return(nil, repo.ErrNotFound)

	_, err := uc.PlaceOrder(ctx, customer, validPlaceOrderInput())
	status, _ := statusOf(err)
	assert.Equal(t, http.StatusNotFound, status)
	r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	r.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestPlaceOrder_HistoryFailureAborts(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()
	uc, _ := newOrderUC(r)

	r.carts.On("FindByUserIDForUpdate", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, ProductID: 100, Quantity: 1, UnitPriceSnapshot: dec("5")},
	}, nil)
	r.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100}, nil)
	r.orders.On("LastNumberBetween", mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	r.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.orderItems.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	r.orderHistory.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := uc.PlaceOrder(ctx, customer, validPlaceOrderInput())
	status, code := statusOf(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, code)
	r.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestPlaceOrder_Validation(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()
	uc, tx := newOrderUC(r)

	_, err := uc.PlaceOrder(ctx, Actor{}, validPlaceOrderInput())
	status, _ := statusOf(err)
	assert.Equal(t, http.StatusUnauthorized, status)

	in := validPlaceOrderInput()
	in.PaymentMethod = "bitcoin"
	_, err = uc.PlaceOrder(ctx, customer, in)
	status, _ = statusOf(err)
	assert.Equal(t, http.StatusBadRequest, status)

	in = validPlaceOrderInput()
	in.DeliveryAddress.City = "  "
	_, err = uc.PlaceOrder(ctx, customer, in)
	status, _ = statusOf(err)
	assert.Equal(t, http.StatusBadRequest, status)

	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderNumberAllocator_RetriesOnceWithRandomSuffix(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	a := &OrderNumberAllocator{random: func(day time.Time) string { return "ORD-260307-4242" }}

	var tried []string
	orders.On("LastNumberBetween", mock.Anything, mock.Anything, mock.Anything).Return("ORD-260307-0009", nil)
	orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { tried = append(tried, args.Get(1).(*model.Order).OrderNumber) }).
		Return(repo.ErrDuplicate).Once()
	orders.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { tried = append(tried, args.Get(1).(*model.Order).OrderNumber) }).
		Return(nil).Once()

	o := &model.Order{CreatedAt: testNow}
	require.NoError(t, a.Create(ctx, orders, o))
	assert.Equal(t, []string{"ORD-260307-0010", "ORD-260307-4242"}, tried)
	assert.Equal(t, "ORD-260307-4242", o.OrderNumber)
}

func TestOrderNumberAllocator_SecondDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	a := &OrderNumberAllocator{random: func(day time.Time) string { return "ORD-260307-4242" }}

	orders.On("LastNumberBetween", mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate).Twice()

	err := a.Create(ctx, orders, &model.Order{CreatedAt: testNow})
	status, code := statusOf(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeConflict, code)
	orders.AssertNumberOfCalls(t, "Create", 2)
}

func TestOrderNumberAllocator_FirstOfDay(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	orders.On("LastNumberBetween", mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	o := &model.Order{CreatedAt: testNow}
	require.NoError(t, NewOrderNumberAllocator().Create(ctx, orders, o))
	assert.Equal(t, "ORD-260307-0001", o.OrderNumber)
}

func TestOrderNumberAllocator_DayExhaustedUsesRandom(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	a := &OrderNumberAllocator{random: func(day time.Time) string { return "ORD-260307-0731" }}

	orders.On("LastNumberBetween", mock.Anything, mock.Anything, mock.Anything).Return("ORD-260307-9999", nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.OrderNumber == "ORD-260307-0731"
	})).Return(nil).Once()

	o := &model.Order{CreatedAt: testNow}
	require.NoError(t, a.Create(ctx, orders, o))
	assert.Equal(t, "ORD-260307-0731", o.OrderNumber)
	orders.AssertNumberOfCalls(t, "Create", 1)
}

func pendingOrder() model.Order {
	return model.Order{
		ID:            55,
		UserID:        7,
		OrderNumber:   "ORD-260307-0005",
		Status:        model.OrderStatusPending,
		PaymentMethod: model.PaymentMethodCash,
		PaymentStatus: model.PaymentStatusPending,
		TotalPrice:    dec("12"),
	}
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels pending order", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.allowNameLookups(nil, nil, nil)
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(55)).Return(pendingOrder(), nil)
		r.orderHistory.On("Append", mock.Anything, mock.MatchedBy(func(h *model.OrderHistory) bool {
			return h.Status == model.OrderStatusCancelled && h.Note == "Order cancelled by customer" && *h.ActorUserID == 7
		})).Return(nil)
		r.orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCancelled).Return(nil)
		r.orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

		out, err := uc.CancelOrder(ctx, customer, 55, "")
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, out.Status)
		r.orderHistory.AssertExpectations(t)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(55)).Return(pendingOrder(), nil)

		_, err := uc.CancelOrder(ctx, Actor{UserID: 1, Role: model.RoleAdmin}, 55, "")
		status, _ := statusOf(err)
		assert.Equal(t, http.StatusForbidden, status)
		r.orderHistory.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("too late to cancel", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		o := pendingOrder()
		o.Status = model.OrderStatusDelivering
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(55)).Return(o, nil)

		_, err := uc.CancelOrder(ctx, customer, 55, "changed my mind")
		status, code := statusOf(err)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, CodeInvalidTransition, code)
		r.orderHistory.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		r.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(99)).Return(nil, repo.ErrNotFound)

		_, err := uc.CancelOrder(ctx, customer, 99, "")
		status, _ := statusOf(err)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner marks paid", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.allowNameLookups(nil, nil, nil)
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(55)).Return(pendingOrder(), nil)
		r.orderHistory.On("Append", mock.Anything, mock.MatchedBy(func(h *model.OrderHistory) bool {
			return h.Status == model.OrderStatusPending &&
				h.PaymentStatus != nil && *h.PaymentStatus == model.PaymentStatusPaid
		})).Return(nil)
		r.orders.On("UpdatePaymentStatus", mock.Anything, int64(55), model.PaymentStatusPaid).Return(nil)
		r.orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

		out, err := uc.UpdatePaymentStatus(ctx, customer, 55, model.PaymentStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, out.PaymentStatus)
		assert.Equal(t, model.OrderStatusPending, out.Status)
		r.orderHistory.AssertExpectations(t)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.allowNameLookups(nil, nil, nil)
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(55)).Return(pendingOrder(), nil)
		r.orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

		_, err := uc.UpdatePaymentStatus(ctx, customer, 55, model.PaymentStatusPending)
		require.NoError(t, err)
		r.orderHistory.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		r.orders.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manager cannot change payment of others", func(t *testing.T) {
		r := newTxRepos()
		uc, _ := newOrderUC(r)
		r.orders.On("FindByIDForUpdate", mock.Anything, int64(55)).Return(pendingOrder(), nil)

		_, err := uc.UpdatePaymentStatus(ctx, Actor{UserID: 2, Role: model.RoleManager}, 55, model.PaymentStatusPaid)
		status, _ := statusOf(err)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("invalid value", func(t *testing.T) {
		r := newTxRepos()
		uc, tx := newOrderUC(r)

		_, err := uc.UpdatePaymentStatus(ctx, customer, 55, "lost")
		status, _ := statusOf(err)
		assert.Equal(t, http.StatusBadRequest, status)
		tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	})
}

func TestGetOrder_Access(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()
	uc, _ := newOrderUC(r)
	r.allowNameLookups(nil, nil, nil)
	r.orders.On("FindByID", mock.Anything, int64(55)).Return(pendingOrder(), nil)
	r.orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.GetOrder(ctx, Actor{UserID: 2, Role: model.RoleManager}, 55)
	require.NoError(t, err)
	assert.Equal(t, "12.00", out.TotalPrice)

	_, err = uc.GetOrder(ctx, Actor{UserID: 3, Role: model.RoleUser}, 55)
	status, _ := statusOf(err)
	assert.Equal(t, http.StatusForbidden, status)
}
