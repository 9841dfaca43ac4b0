package handler

import (
	"encoding/json"
	"net/http"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /categories, /toppings, /side-options
type CatalogHandler struct {
	uc             *usecase.CatalogUsecase
	uploadMaxBytes int64
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, uploadMaxBytes int64) *CatalogHandler {
	return &CatalogHandler{uc: uc, uploadMaxBytes: uploadMaxBytes}
}

type categoryRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

// multipart/form-data でも JSON でも受ける
type addonRequest struct {
	Name  string      `json:"name" form:"name" validate:"required,max=100"`
	Price json.Number `json:"price" form:"price" validate:"required"`
}

func (h *CatalogHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	authed := authChain(cfg, userRepo)
	manage := authChain(cfg, userRepo, middleware.RequirePermission(model.PermManageCatalog))
	remove := authChain(cfg, userRepo, middleware.RequirePermission(model.PermDeleteCatalog))

	cat := g.Group("/categories")
	cat.GET("", h.listCategories)
	cat.GET("/:id", h.getCategory)
	cat.POST("", h.createCategory, manage...)
	cat.PUT("/:id", h.updateCategory, manage...)
	cat.DELETE("/:id", h.deleteCategory, remove...)

	top := g.Group("/toppings")
	top.GET("", h.listToppings, authed...)
	top.GET("/:id", h.getTopping, authed...)
	top.POST("", h.createTopping, manage...)
	top.PUT("/:id", h.updateTopping, manage...)
	top.DELETE("/:id", h.deleteTopping, remove...)

	side := g.Group("/side-options")
	side.GET("", h.listSideOptions, authed...)
	side.GET("/:id", h.getSideOption, authed...)
	side.POST("", h.createSideOption, manage...)
	side.PUT("/:id", h.updateSideOption, manage...)
	side.DELETE("/:id", h.deleteSideOption, remove...)
}

// =====================
// categories
// =====================

func (h *CatalogHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CatalogHandler) getCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CatalogHandler) createCategory(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.uc.CreateCategory(c.Request().Context(), actorFrom(c), middleware.SanitizeText(req.Name))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "resource created successfully", out)
}

func (h *CatalogHandler) updateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.uc.UpdateCategory(c.Request().Context(), actorFrom(c), id, middleware.SanitizeText(req.Name))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource updated successfully", out)
}

func (h *CatalogHandler) deleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteCategory(c.Request().Context(), actorFrom(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource deleted successfully", nil)
}

// =====================
// toppings
// =====================

func (h *CatalogHandler) listToppings(c echo.Context) error {
	out, err := h.uc.ListToppings(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CatalogHandler) getTopping(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetTopping(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CatalogHandler) createTopping(c echo.Context) error {
	in, cleanup, err := h.addonInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := h.uc.CreateTopping(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "resource created successfully", out)
}

func (h *CatalogHandler) updateTopping(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, cleanup, err := h.addonInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := h.uc.UpdateTopping(c.Request().Context(), actorFrom(c), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource updated successfully", out)
}

func (h *CatalogHandler) deleteTopping(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteTopping(c.Request().Context(), actorFrom(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource deleted successfully", nil)
}

// =====================
// side options
// =====================

func (h *CatalogHandler) listSideOptions(c echo.Context) error {
	out, err := h.uc.ListSideOptions(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CatalogHandler) getSideOption(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetSideOption(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}

func (h *CatalogHandler) createSideOption(c echo.Context) error {
	in, cleanup, err := h.addonInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := h.uc.CreateSideOption(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "resource created successfully", out)
}

func (h *CatalogHandler) updateSideOption(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, cleanup, err := h.addonInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := h.uc.UpdateSideOption(c.Request().Context(), actorFrom(c), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource updated successfully", out)
}

func (h *CatalogHandler) deleteSideOption(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteSideOption(c.Request().Context(), actorFrom(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource deleted successfully", nil)
}

func (h *CatalogHandler) addonInput(c echo.Context) (usecase.AddonInput, func(), error) {
	noop := func() {}

	var req addonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return usecase.AddonInput{}, noop, err
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		return usecase.AddonInput{}, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	image, cleanup, err := readImage(c, h.uploadMaxBytes)
	if err != nil {
		return usecase.AddonInput{}, noop, err
	}

	return usecase.AddonInput{
		Name:  middleware.SanitizeText(req.Name),
		Price: price,
		Image: image,
	}, cleanup, nil
}
