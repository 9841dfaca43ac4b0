package handler

import (
	"net/http"

	"foodorder/internal/config"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartItemRequest struct {
	ProductID   int64           `json:"product_id" validate:"required,gt=0"`
	Quantity    int64           `json:"quantity" validate:"gte=1"`
	Spice       decimal.Decimal `json:"spice"`
	Toppings    []int64         `json:"toppings"`
	SideOptions []int64         `json:"side_options"`
	Notes       string          `json:"notes" validate:"max=500"`
}

type AddCartRequest struct {
	Items []addCartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"gte=1"`
}

// /cart, /cart/:id を登録
func (h *CartHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	cart := g.Group("/cart", authChain(cfg, userRepo)...)

	cart.GET("", h.getCart)
	cart.POST("", h.addToCart)
	cart.PUT("/:id", h.updateItem)
	cart.DELETE("/:id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := usecase.AddCartInput{Items: make([]usecase.AddCartItemInput, 0, len(req.Items))}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.AddCartItemInput{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Spice:         it.Spice,
			ToppingIDs:    it.Toppings,
			SideOptionIDs: it.SideOptions,
			Notes:         middleware.SanitizeText(it.Notes),
		})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart updated successfully", out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateCartItem(c.Request().Context(), actorFrom(c), itemID, usecase.UpdateCartItemInput{
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart updated successfully", out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	out, err := h.uc.DeleteCartItem(c.Request().Context(), actorFrom(c), itemID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart updated successfully", out)
}
