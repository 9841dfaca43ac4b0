package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, clock: clock}
}

type UpdateOrderStatusInput struct {
	Status model.OrderStatus
	Note   string
}

// 注文一覧（管理）
func (u *AdminOrderUsecase) List(ctx context.Context, actor Actor, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	if !actor.Authenticated() {
		return OrderListOutput{}, errUnauthorized()
	}
	if !actor.Can(model.PermReadOrders) {
		return OrderListOutput{}, errForbidden()
	}
	// page/limitの最低限チェック
	if f.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	out := OrderListOutput{Page: f.Page, Limit: f.Limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return internalError(err)
		}
		out.Total = total
		out.Items, err = loadOrderOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// UpdateStatus はスタッフによるステータス変更。
// 前にしか進めない（飛ばしはOK）。キャンセルはpending/processingから。
// 同じステータスなら何もしない（履歴も残さない）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor Actor, orderID int64, in UpdateOrderStatusInput) (out OrderOutput, err error) {
	ctx, span := tracer.Start(ctx, "AdminOrderUsecase.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.status", string(in.Status))))
	defer func() { endSpan(span, err) }()

	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if !actor.Can(model.PermUpdateOrderStatus) {
		return OrderOutput{}, errForbidden()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	newStatus := model.OrderStatus(strings.TrimSpace(string(in.Status)))
	if !newStatus.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得（他の状態変更とは直列にする）
		o, err := findOrderForUpdate(ctx, r, orderID)
		if err != nil {
			return err
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			out, err = loadOrderOutput(ctx, r, o)
			return err
		}
		if !o.Status.CanTransitionTo(newStatus) {
			return errInvalidTransition(o.Status, newStatus)
		}

		now := u.clock.Now()
		note := strings.TrimSpace(in.Note)
		if note == "" {
			note = "Status changed to " + string(newStatus)
		}
		if err := appendStatusChange(ctx, r, o.ID, newStatus, note, actor.UserID, now); err != nil {
			return err
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, newAuditLog(actor, model.AuditActionUpdateOrderStat, model.AuditResourceOrder, o.ID,
			map[string]string{"status": string(o.Status)},
			map[string]string{"status": string(newStatus)},
			now,
		)); err != nil {
			return internalError(err)
		}

		o.Status = newStatus
		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 変更前/変更後をJSONにして監査ログを作る
func newAuditLog(actor Actor, action model.AuditAction, resource model.AuditResourceType, resourceID int64, before, after any, at time.Time) model.AuditLog {
	return model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    at,
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
