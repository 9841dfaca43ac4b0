package model

// ロール（固定の列挙）
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// 操作権限
type Permission string

const (
	PermReadUsers           Permission = "read:users"
	PermUpdateUsers         Permission = "update:users"
	PermReadOrders          Permission = "read:orders"
	PermUpdateOrderStatus   Permission = "update:order_status"
	PermUpdatePaymentStatus Permission = "update:payment_status"
	PermManageCatalog       Permission = "manage:catalog"
	PermDeleteCatalog       Permission = "delete:catalog"
	PermReadAuditLogs       Permission = "read:audit_logs"
)

// ロールごとの権限表。実行時に書き換えない。
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermReadUsers,
		PermUpdateUsers,
		PermReadOrders,
		PermUpdateOrderStatus,
		PermUpdatePaymentStatus,
		PermManageCatalog,
		PermDeleteCatalog,
		PermReadAuditLogs,
	},
	RoleManager: {
		PermReadOrders,
		PermUpdateOrderStatus,
		PermManageCatalog,
	},
	RoleUser: {},
}

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Can はロールが権限を持っているかを返す。
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}
