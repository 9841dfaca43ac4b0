package usecase

import (
	"context"
	"net/http"
	"strings"

	"foodorder/internal/domain/model"
	"foodorder/internal/domain/pricing"
	repo "foodorder/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartAddonResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// price は unit_price_snapshot（追加時点の価格）を返します。
type CartItemResponse struct {
	ID          int64               `json:"id"`
	ProductID   int64               `json:"product_id"`
	Name        string              `json:"name"`
	Price       string              `json:"price"`
	Quantity    int64               `json:"quantity"`
	Spice       string              `json:"spice"`
	Notes       string              `json:"notes,omitempty"`
	Toppings    []CartAddonResponse `json:"toppings"`
	SideOptions []CartAddonResponse `json:"side_options"`
	LineTotal   string              `json:"line_total"`
}

type CartResponse struct {
	ID    int64              `json:"id"`
	Items []CartItemResponse `json:"items"`
	Total string             `json:"total"`
}

type AddCartItemInput struct {
	ProductID     int64
	Quantity      int64
	Spice         decimal.Decimal
	ToppingIDs    []int64
	SideOptionIDs []int64
	Notes         string
}

type AddCartInput struct {
	Items []AddCartItemInput
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, actor Actor) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, errUnauthorized()
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, actor.UserID)
		if err != nil {
			return internalError(err)
		}
		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// AddToCart はまとめて追加。全部成功するか全部失敗する。
// トッピング/サイド/辛さの無い明細は、同じ商品の既存明細に数量加算。
func (u *CartUsecase) AddToCart(ctx context.Context, actor Actor, in AddCartInput) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, errUnauthorized()
	}
	if len(in.Items) == 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "items is required")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if it.Quantity < 1 {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if err := pricing.ValidateSpice(it.Spice); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid spice")
		}
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, actor.UserID)
		if err != nil {
			return internalError(err)
		}

		existing, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return internalError(err)
		}
		// 商品ID → 加算先の明細ID
		plainLines := map[int64]int64{}
		for _, ci := range existing {
			if ci.IsPlain() {
				plainLines[ci.ProductID] = ci.ID
			}
		}

		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err != nil {
				return mapRepoErr(err, "product")
			}

			// 存在しないトッピング/サイドは無視
			toppings, err := r.Toppings().FindByIDs(ctx, it.ToppingIDs)
			if err != nil {
				return internalError(err)
			}
			sides, err := r.SideOptions().FindByIDs(ctx, it.SideOptionIDs)
			if err != nil {
				return internalError(err)
			}

			line := model.CartItem{
				CartID:            cart.ID,
				ProductID:         p.ID,
				Quantity:          it.Quantity,
				Spice:             it.Spice,
				UnitPriceSnapshot: p.Price,
				Notes:             strings.TrimSpace(it.Notes),
			}
			// 同じIDを2回指定したら2個分。順番もリクエストのまま
			toppingByID := make(map[int64]model.Topping, len(toppings))
			for _, t := range toppings {
				toppingByID[t.ID] = t
			}
			for _, id := range it.ToppingIDs {
				if t, ok := toppingByID[id]; ok {
					line.Toppings = append(line.Toppings, model.CartItemTopping{ToppingID: t.ID, UnitPriceSnapshot: t.Price})
				}
			}
			sideByID := make(map[int64]model.SideOption, len(sides))
			for _, s := range sides {
				sideByID[s.ID] = s
			}
			for _, id := range it.SideOptionIDs {
				if s, ok := sideByID[id]; ok {
					line.SideOptions = append(line.SideOptions, model.CartItemSideOption{SideOptionID: s.ID, UnitPriceSnapshot: s.Price})
				}
			}

			if line.IsPlain() {
				if lineID, ok := plainLines[p.ID]; ok {
					if err := r.CartItems().IncrementQuantity(ctx, lineID, it.Quantity); err != nil {
						return mapRepoErr(err, "cart item")
					}
					continue
				}
			}

			if err := r.CartItems().Create(ctx, &line); err != nil {
				return internalError(err)
			}
			if line.IsPlain() {
				plainLines[p.ID] = line.ID
			}
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 数量変更（所有チェック）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, actor Actor, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, errUnauthorized()
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	return u.changeOwnedLine(ctx, actor, cartItemID, func(r repo.TxRepos) error {
		return r.CartItems().UpdateQuantity(ctx, cartItemID, in.Quantity)
	})
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, actor Actor, cartItemID int64) (CartResponse, error) {
	if !actor.Authenticated() {
		return CartResponse{}, errUnauthorized()
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.changeOwnedLine(ctx, actor, cartItemID, func(r repo.TxRepos) error {
		return r.CartItems().DeleteByID(ctx, cartItemID)
	})
}

// 他人の明細は「存在しない扱い」
func (u *CartUsecase) changeOwnedLine(ctx context.Context, actor Actor, cartItemID int64, change func(r repo.TxRepos) error) (CartResponse, error) {
	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文確定中のカートは触らせない
		cart, err := r.Carts().FindByUserIDForUpdate(ctx, actor.UserID)
		if err != nil {
			// カートが無ければ明細も無い
			return mapRepoErr(err, "cart item")
		}

		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, actor.UserID)
		if err != nil {
			return internalError(err)
		}
		if !owned {
			return errNotFound("cart item")
		}

		if err := change(r); err != nil {
			return mapRepoErr(err, "cart item")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// cartIDの明細をまとめてCartResponseを作る。
func buildCartResponse(ctx context.Context, r repo.TxRepos, cartID int64) (CartResponse, error) {
	items, err := r.CartItems().ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, internalError(err)
	}

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

	products, err := r.Products().FindByIDs(ctx, productIDs)
	if err != nil {
		return CartResponse{}, internalError(err)
	}
	productNames := make(map[int64]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}
	toppings, err := r.Toppings().FindByIDs(ctx, toppingIDs)
	if err != nil {
		return CartResponse{}, internalError(err)
	}
	toppingNames := make(map[int64]string, len(toppings))
	for _, t := range toppings {
		toppingNames[t.ID] = t.Name
	}
	sides, err := r.SideOptions().FindByIDs(ctx, sideIDs)
	if err != nil {
		return CartResponse{}, internalError(err)
	}
	sideNames := make(map[int64]string, len(sides))
	for _, s := range sides {
		sideNames[s.ID] = s.Name
	}

	respItems := make([]CartItemResponse, 0, len(items))
	totals := make([]decimal.Decimal, 0, len(items))

	for _, it := range items {
		name, ok := productNames[it.ProductID]
		if !ok {
			// 削除された商品は表示しない
			continue
		}

		lineTotal, err := pricing.LineTotal(pricing.LineInput{
			UnitPrice:        it.UnitPriceSnapshot,
			Quantity:         it.Quantity,
			ToppingPrices:    it.ToppingPrices(),
			SideOptionPrices: it.SideOptionPrices(),
			Spice:            it.Spice,
		})
		if err != nil {
			return CartResponse{}, internalError(err)
		}
		totals = append(totals, lineTotal)

		resp := CartItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Name:        name,
			Price:       pricing.Display(it.UnitPriceSnapshot),
			Quantity:    it.Quantity,
			Spice:       it.Spice.String(),
			Notes:       it.Notes,
			Toppings:    make([]CartAddonResponse, 0, len(it.Toppings)),
			SideOptions: make([]CartAddonResponse, 0, len(it.SideOptions)),
			LineTotal:   pricing.Display(lineTotal),
		}
		for _, t := range it.Toppings {
			resp.Toppings = append(resp.Toppings, CartAddonResponse{ID: t.ToppingID, Name: toppingNames[t.ToppingID], Price: pricing.Display(t.UnitPriceSnapshot)})
		}
		for _, s := range it.SideOptions {
			resp.SideOptions = append(resp.SideOptions, CartAddonResponse{ID: s.SideOptionID, Name: sideNames[s.SideOptionID], Price: pricing.Display(s.UnitPriceSnapshot)})
		}
		respItems = append(respItems, resp)
	}

	return CartResponse{ID: cartID, Items: respItems, Total: pricing.Display(pricing.CartTotal(totals...))}, nil
}

