package handler

import (
	"net/http"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc      *usecase.OrderUsecase
	history *usecase.OrderHistoryUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, history *usecase.OrderHistoryUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, history: history}
}

type deliveryAddressRequest struct {
	Street     string   `json:"street" validate:"required,max=255"`
	City       string   `json:"city" validate:"required,max=100"`
	PostalCode string   `json:"postal_code" validate:"max=20"`
	Country    string   `json:"country" validate:"max=100"`
	Lat        *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng        *float64 `json:"lng" validate:"omitempty,longitude"`
}

type placeOrderRequest struct {
	PaymentMethod         string                 `json:"payment_method" validate:"required,oneof=cash credit_card digital_wallet"`
	DeliveryAddress       deliveryAddressRequest `json:"delivery_address" validate:"required"`
	Notes                 string                 `json:"notes" validate:"max=500"`
	EstimatedDeliveryTime *time.Time             `json:"estimated_delivery_time"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid failed refunded"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	orders := g.Group("/orders", authChain(cfg, userRepo)...)
	orders.POST("", h.place)
	orders.GET("/myorders", h.myOrders)
	orders.GET("/:id", h.get)
	orders.PUT("/:id/cancel", h.cancel)
	orders.PUT("/:id/payment", h.payment)

	history := g.Group("/order-history", authChain(cfg, userRepo)...)
	history.GET("/:id", h.getHistory)
}

func (h *OrderHandler) place(c echo.Context) error {
	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), actorFrom(c), usecase.PlaceOrderInput{
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		DeliveryAddress: model.DeliveryAddress{
			Street:     middleware.SanitizeText(req.DeliveryAddress.Street),
			City:       middleware.SanitizeText(req.DeliveryAddress.City),
			PostalCode: middleware.SanitizeText(req.DeliveryAddress.PostalCode),
			Country:    middleware.SanitizeText(req.DeliveryAddress.Country),
			Lat:        req.DeliveryAddress.Lat,
			Lng:        req.DeliveryAddress.Lng,
		},
		Notes:                 middleware.SanitizeText(req.Notes),
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "order placed successfully", out)
}

func (h *OrderHandler) myOrders(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return err
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), actorFrom(c), page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *OrderHandler) get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetOrder(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req cancelOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), actorFrom(c), id, middleware.SanitizeText(req.Reason))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "order cancelled successfully", out)
}

func (h *OrderHandler) payment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req paymentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdatePaymentStatus(c.Request().Context(), actorFrom(c), id, model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "payment status updated", out)
}

func (h *OrderHandler) getHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.history.GetHistory(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}
