package server

import (
	"foodorder/internal/config"
	"foodorder/internal/handler"
	"foodorder/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルート登録に必要なもの
type Deps struct {
	UserRepo repository.UserRepository

	Auth         *handler.AuthHandler
	AdminUsers   *handler.AdminUserHandler
	Catalog      *handler.CatalogHandler
	Products     *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Favorites    *handler.FavoriteHandler
	Cart         *handler.CartHandler
	Orders       *handler.OrderHandler
	AdminOrders  *handler.AdminOrderHandler
	AuditLogs    *handler.AdminAuditLogHandler
}

// 全APIは /api 配下
func RegisterRoutes(e *echo.Echo, cfg config.Config, d Deps) {
	api := e.Group("/api")

	d.Auth.RegisterRoutes(api, cfg, d.UserRepo)
	d.AdminUsers.RegisterRoutes(api, cfg, d.UserRepo)
	d.Catalog.RegisterRoutes(api, cfg, d.UserRepo)
	d.Products.RegisterRoutes(api)
	d.AdminProduct.RegisterRoutes(api, cfg, d.UserRepo)
	d.Favorites.RegisterRoutes(api, cfg, d.UserRepo)
	d.Cart.RegisterRoutes(api, cfg, d.UserRepo)
	d.Orders.RegisterRoutes(api, cfg, d.UserRepo)
	d.AdminOrders.RegisterRoutes(api, cfg, d.UserRepo)
	d.AuditLogs.RegisterRoutes(api, cfg, d.UserRepo)
}
