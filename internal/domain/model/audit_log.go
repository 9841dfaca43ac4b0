package model

import "time"

// カタログ変更、ロール変更など。
type AuditAction string

const (
	AuditActionCreate          AuditAction = "CREATE"
	AuditActionUpdate          AuditAction = "UPDATE"
	AuditActionDelete          AuditAction = "DELETE"
	AuditActionUpdateRole      AuditAction = "UPDATE_ROLE"
	AuditActionForceLogout     AuditAction = "FORCE_LOGOUT"
	AuditActionUpdateOrderStat AuditAction = "UPDATE_ORDER_STATUS"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionUpdateRole, AuditActionForceLogout, AuditActionUpdateOrderStat:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceCategory   AuditResourceType = "category"
	AuditResourceProduct    AuditResourceType = "product"
	AuditResourceTopping    AuditResourceType = "topping"
	AuditResourceSideOption AuditResourceType = "side_option"
	AuditResourceUser       AuditResourceType = "user"
	AuditResourceOrder      AuditResourceType = "order"
)

func (t AuditResourceType) Valid() bool {
	switch t {
	case AuditResourceCategory, AuditResourceProduct, AuditResourceTopping,
		AuditResourceSideOption, AuditResourceUser, AuditResourceOrder:
		return true
	}
	return false
}

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
