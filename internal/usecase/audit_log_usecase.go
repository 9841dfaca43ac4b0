package usecase

import (
	"context"
	"net/http"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"
)

// AuditLogUsecase は管理者向けの監査ログ閲覧。
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

type AuditLogListOutput struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *AuditLogUsecase) List(ctx context.Context, actor Actor, f repo.AuditLogListFilter) (AuditLogListOutput, error) {
	if !actor.Authenticated() {
		return AuditLogListOutput{}, errUnauthorized()
	}
	if !actor.Can(model.PermReadAuditLogs) {
		return AuditLogListOutput{}, errForbidden()
	}
	if f.Page < 1 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Action != "" && !f.Action.Valid() {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid action")
	}
	if f.ResourceType != "" && !f.ResourceType.Valid() {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}
	// resource_idだけでは種類が決まらない
	if f.ResourceID != nil && f.ResourceType == "" {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "resource_id requires resource_type")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "to must not be before from")
	}

	logs, total, err := u.logs.List(ctx, f)
	if err != nil {
		return AuditLogListOutput{}, internalError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogListOutput{Items: logs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}
