package handler

import (
	"net/http"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	auth "foodorder/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	uc *auth.AdminUserUsecase
}

func NewAdminUserHandler(uc *auth.AdminUserUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user manager admin"`
}

func (h *AdminUserHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	// /users 配下は全部「JWT必須 + token_version一致 + update:users」
	admin := g.Group("/users", authChain(cfg, userRepo, middleware.RequirePermission(model.PermUpdateUsers))...)

	admin.PUT("/:id/role", h.ChangeRole)
	admin.POST("/:id/force-logout", h.ForceLogout)
}

func (h *AdminUserHandler) ChangeRole(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor := actorFrom(c)
	user, err := h.uc.ChangeRole(c.Request().Context(), actor.UserID, actor.Role, userID, model.Role(req.Role))
	if err != nil {
		return mapAuthError(err)
	}
	return respond(c, http.StatusOK, "user role updated successfully", user)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	actor := actorFrom(c)
	if err := h.uc.ForceLogout(c.Request().Context(), actor.UserID, actor.Role, userID); err != nil {
		return mapAuthError(err)
	}
	return respond(c, http.StatusOK, "user logged out from all devices", map[string]int64{"user_id": userID})
}
