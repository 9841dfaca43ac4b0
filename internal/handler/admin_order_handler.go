package handler

import (
	"net/http"
	"strconv"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing preparing delivering completed cancelled"`
	Note   string `json:"note" validate:"max=500"`
}

func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	read := authChain(cfg, userRepo, middleware.RequirePermission(model.PermReadOrders))
	update := authChain(cfg, userRepo, middleware.RequirePermission(model.PermUpdateOrderStatus))

	g.GET("/orders", h.list, read...)
	g.PUT("/orders/:id/status", h.updateStatus, update...)
	// 履歴追加は状態更新と同じ
	g.POST("/order-history/:id", h.updateStatus, update...)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return err
	}

	userID, err := queryID(c, "user_id")
	if err != nil {
		return err
	}

	fromPtr, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	toPtr, err := queryTime(c, "to")
	if err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), actorFrom(c), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		UserID: userID,
		From:   fromPtr,
		To:     toPtr,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req OrderStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	// 操作したユーザーは監査ログと履歴に残る
	out, err := h.uc.UpdateStatus(c.Request().Context(), actorFrom(c), orderID, usecase.UpdateOrderStatusInput{
		Status: model.OrderStatus(req.Status),
		Note:   middleware.SanitizeText(req.Note),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "order status updated", out)
}

// 正の整数。空ならnil
func queryID(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &id, nil
}

// RFC3339。空ならnil
func queryTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	tm, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &tm, nil
}
