package handler

import (
	"net/http"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAdminAuditLogHandler(uc *usecase.AuditLogUsecase) *AdminAuditLogHandler {
	return &AdminAuditLogHandler{uc: uc}
}

func (h *AdminAuditLogHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	g.GET("/audit-logs", h.list, authChain(cfg, userRepo, middleware.RequirePermission(model.PermReadAuditLogs))...)
}

// GET /audit-logs?actor_user_id=&action=&resource_type=&resource_id=&from=&to=&page=&limit=
func (h *AdminAuditLogHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return err
	}
	actorID, err := queryID(c, "actor_user_id")
	if err != nil {
		return err
	}
	resourceID, err := queryID(c, "resource_id")
	if err != nil {
		return err
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), actorFrom(c), repository.AuditLogListFilter{
		Page:         page,
		Limit:        limit,
		ActorUserID:  actorID,
		Action:       model.AuditAction(c.QueryParam("action")),
		ResourceType: model.AuditResourceType(c.QueryParam("resource_type")),
		ResourceID:   resourceID,
		From:         from,
		To:           to,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "operation successful", out)
}
