package usecase

import (
	"context"
	"net/http"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"
)

type OrderHistoryUsecase struct {
	tx repo.TransactionManager
}

func NewOrderHistoryUsecase(tx repo.TransactionManager) *OrderHistoryUsecase {
	return &OrderHistoryUsecase{tx: tx}
}

type OrderHistoryEntryOutput struct {
	Status        model.OrderStatus    `json:"status"`
	PaymentStatus *model.PaymentStatus `json:"payment_status,omitempty"`
	Note          string               `json:"note"`
	ActorUserID   *int64               `json:"updated_by,omitempty"`
	Timestamp     string               `json:"timestamp"`
}

type OrderHistoryOutput struct {
	OrderNumber     string                    `json:"order_number"`
	CurrentStatus   model.OrderStatus         `json:"current_status"`
	PaymentStatus   model.PaymentStatus       `json:"payment_status"`
	TrackingHistory []OrderHistoryEntryOutput `json:"tracking_history"`
}

// GetHistory は注文の追跡履歴（古い順）。本人か注文閲覧権限。
func (u *OrderHistoryUsecase) GetHistory(ctx context.Context, actor Actor, orderID int64) (OrderHistoryOutput, error) {
	if !actor.Authenticated() {
		return OrderHistoryOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderHistoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderHistoryOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if !actor.OwnsOr(o.UserID, model.PermReadOrders) {
			return errForbidden()
		}

		entries, err := r.OrderHistory().ListByOrderID(ctx, o.ID)
		if err != nil {
			return internalError(err)
		}

		out = OrderHistoryOutput{
			OrderNumber:     o.OrderNumber,
			CurrentStatus:   o.Status,
			PaymentStatus:   o.PaymentStatus,
			TrackingHistory: make([]OrderHistoryEntryOutput, 0, len(entries)),
		}
		for _, e := range entries {
			out.TrackingHistory = append(out.TrackingHistory, OrderHistoryEntryOutput{
				Status:        e.Status,
				PaymentStatus: e.PaymentStatus,
				Note:          e.Note,
				ActorUserID:   e.ActorUserID,
				Timestamp:     e.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			})
		}
		return nil
	})
	if err != nil {
		return OrderHistoryOutput{}, err
	}
	return out, nil
}
