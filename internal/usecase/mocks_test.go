package usecase

import (
	"context"
	"io"
	"time"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"

	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type txReposMock struct {
	orders       *OrderRepoMock
	orderItems   *OrderItemRepoMock
	orderHistory *OrderHistoryRepoMock
	carts        *CartRepoMock
	cartItems    *CartItemRepoMock
	products     *ProductRepoMock
	toppings     *ToppingRepoMock
	sideOptions  *SideOptionRepoMock
	auditLogs    *AuditLogRepoMock
}

func (r *txReposMock) Orders() repo.OrderRepository              { return r.orders }
func (r *txReposMock) OrderItems() repo.OrderItemRepository      { return r.orderItems }
func (r *txReposMock) OrderHistory() repo.OrderHistoryRepository { return r.orderHistory }
func (r *txReposMock) Carts() repo.CartRepository                { return r.carts }
func (r *txReposMock) CartItems() repo.CartItemRepository        { return r.cartItems }
func (r *txReposMock) Products() repo.ProductRepository          { return r.products }
func (r *txReposMock) Toppings() repo.ToppingRepository          { return r.toppings }
func (r *txReposMock) SideOptions() repo.SideOptionRepository    { return r.sideOptions }
func (r *txReposMock) AuditLogs() repo.AuditLogRepository        { return r.auditLogs }

func newTxRepos() *txReposMock {
	return &txReposMock{
		orders:       new(OrderRepoMock),
		orderItems:   new(OrderItemRepoMock),
		orderHistory: new(OrderHistoryRepoMock),
		carts:        new(CartRepoMock),
		cartItems:    new(CartItemRepoMock),
		products:     new(ProductRepoMock),
		toppings:     new(ToppingRepoMock),
		sideOptions:  new(SideOptionRepoMock),
		auditLogs:    new(AuditLogRepoMock),
	}
}

// 名前解決（FindByIDs）はどのテストでも同じなのでまとめて登録
func (r *txReposMock) allowNameLookups(products []model.Product, toppings []model.Topping, sides []model.SideOption) {
	r.products.On("FindByIDs", mock.Anything, mock.Anything).Return(products, nil).Maybe()
	r.toppings.On("FindByIDs", mock.Anything, mock.Anything).Return(toppings, nil).Maybe()
	r.sideOptions.On("FindByIDs", mock.Anything, mock.Anything).Return(sides, nil).Maybe()
}

func newTxManager(r *txReposMock) *TxManagerMock {
	tx := &TxManagerMock{Repos: r}
	tx.On("WithinTx", mock.Anything).Return()
	return tx
}

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) LastNumberBetween(ctx context.Context, from, to time.Time) (string, error) {
	args := m.Called(ctx, from, to)
	return args.String(0), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type OrderHistoryRepoMock struct{ mock.Mock }

func (m *OrderHistoryRepoMock) Append(ctx context.Context, entry *model.OrderHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *OrderHistoryRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderHistory, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderHistory)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserIDForUpdate(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	panic("not used in usecase tests")
}

func (m *CartItemRepoMock) Create(ctx context.Context, item *model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepoMock) IncrementQuantity(ctx context.Context, cartItemID int64, addQty int64) error {
	args := m.Called(ctx, cartItemID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ToppingRepoMock struct{ mock.Mock }

func (m *ToppingRepoMock) List(ctx context.Context) ([]model.Topping, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Topping)
	return items, args.Error(1)
}

func (m *ToppingRepoMock) FindByID(ctx context.Context, id int64) (model.Topping, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Topping)
	return t, args.Error(1)
}

func (m *ToppingRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Topping, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Topping)
	return items, args.Error(1)
}

func (m *ToppingRepoMock) Create(ctx context.Context, t *model.Topping) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *ToppingRepoMock) Update(ctx context.Context, t *model.Topping) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *ToppingRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type SideOptionRepoMock struct{ mock.Mock }

func (m *SideOptionRepoMock) List(ctx context.Context) ([]model.SideOption, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.SideOption)
	return items, args.Error(1)
}

func (m *SideOptionRepoMock) FindByID(ctx context.Context, id int64) (model.SideOption, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.SideOption)
	return s, args.Error(1)
}

func (m *SideOptionRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.SideOption, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.SideOption)
	return items, args.Error(1)
}

func (m *SideOptionRepoMock) Create(ctx context.Context, s *model.SideOption) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SideOptionRepoMock) Update(ctx context.Context, s *model.SideOption) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SideOptionRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type FavoriteRepoMock struct{ mock.Mock }

func (m *FavoriteRepoMock) Find(ctx context.Context, userID, productID int64) (model.Favorite, error) {
	args := m.Called(ctx, userID, productID)
	f, _ := args.Get(0).(model.Favorite)
	return f, args.Error(1)
}

func (m *FavoriteRepoMock) Create(ctx context.Context, f *model.Favorite) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FavoriteRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FavoriteRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, f repo.AuditLogListFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	total, _ := args.Get(1).(int64)
	return logs, total, args.Error(2)
}

type ImageStorageMock struct{ mock.Mock }

func (m *ImageStorageMock) Save(ctx context.Context, filename string, src io.Reader) (string, error) {
	args := m.Called(ctx, filename, src)
	return args.String(0), args.Error(1)
}

func (m *ImageStorageMock) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// HTTPErrorのStatus/Codeを取り出す
func statusOf(err error) (int, ErrorCode) {
	he, ok := AsHTTPError(err)
	if !ok {
		return 0, ""
	}
	return he.Status, he.Code
}
