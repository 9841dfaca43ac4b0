package usecase

import (
	"time"

	"foodorder/internal/domain/model"
)

// 操作しているユーザー（JWTから作る）
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) Authenticated() bool {
	return a.UserID > 0
}

func (a Actor) Can(p model.Permission) bool {
	return a.Role.Can(p)
}

// 本人か、権限を持っているか
func (a Actor) OwnsOr(ownerID int64, p model.Permission) bool {
	return a.UserID == ownerID || a.Can(p)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
