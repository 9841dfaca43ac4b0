package handler

import (
	"net/http"

	"foodorder/internal/config"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type FavoriteHandler struct {
	uc *usecase.FavoriteUsecase
}

func NewFavoriteHandler(uc *usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{uc: uc}
}

func (h *FavoriteHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	fav := g.Group("/favorites", authChain(cfg, userRepo)...)
	fav.GET("", h.list)
	fav.POST("/:id", h.toggle)
}

func (h *FavoriteHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

// 追加済みなら外す
func (h *FavoriteHandler) toggle(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Toggle(c.Request().Context(), actorFrom(c), productID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}
