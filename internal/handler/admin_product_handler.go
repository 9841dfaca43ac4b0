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

// 商品の作成・更新。multipart/form-data（image付き）かJSON
type productRequest struct {
	Name        string      `json:"name" form:"name" validate:"required,max=200"`
	Description string      `json:"description" form:"description" validate:"max=2000"`
	CategoryID  json.Number `json:"category_id" form:"category_id"`
	Price       json.Number `json:"price" form:"price" validate:"required"`
	Rating      json.Number `json:"rating" form:"rating"`
}

// 商品の管理API
type AdminProductHandler struct {
	uc             *usecase.ProductUsecase
	uploadMaxBytes int64
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase, uploadMaxBytes int64) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, uploadMaxBytes: uploadMaxBytes}
}

func (h *AdminProductHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	manage := authChain(cfg, userRepo, middleware.RequirePermission(model.PermManageCatalog))

	g.POST("/products", h.createProduct, manage...)
	g.PUT("/products/:id", h.updateProduct, manage...)
	g.DELETE("/products/:id", h.deleteProduct, authChain(cfg, userRepo, middleware.RequirePermission(model.PermDeleteCatalog))...)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	in, cleanup, err := h.productInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "resource created successfully", p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, cleanup, err := h.productInput(c)
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := h.uc.AdminUpdateProduct(c.Request().Context(), actorFrom(c), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource updated successfully", p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.AdminDeleteProduct(c.Request().Context(), actorFrom(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "resource deleted successfully", nil)
}

func (h *AdminProductHandler) productInput(c echo.Context) (usecase.ProductInput, func(), error) {
	noop := func() {}

	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return usecase.ProductInput{}, noop, err
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		return usecase.ProductInput{}, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	rating := decimal.Zero
	if req.Rating != "" {
		if rating, err = decimal.NewFromString(req.Rating.String()); err != nil {
			return usecase.ProductInput{}, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid rating")
		}
	}

	var categoryID *int64
	if req.CategoryID != "" {
		id, err := req.CategoryID.Int64()
		if err != nil || id <= 0 {
			return usecase.ProductInput{}, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		categoryID = &id
	}

	image, cleanup, err := readImage(c, h.uploadMaxBytes)
	if err != nil {
		return usecase.ProductInput{}, noop, err
	}

	return usecase.ProductInput{
		Name:        middleware.SanitizeText(req.Name),
		Description: middleware.SanitizeText(req.Description),
		CategoryID:  categoryID,
		Price:       price,
		Rating:      rating,
		Image:       image,
	}, cleanup, nil
}
