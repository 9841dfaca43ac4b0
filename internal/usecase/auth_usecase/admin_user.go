package auth

import (
	"context"
	"encoding/json"
	"errors"

	"foodorder/internal/domain/model"
	"foodorder/internal/repository"
)

// 管理者によるユーザー操作（ロール変更・強制ログアウト）
type AdminUserUsecase struct {
	userRepo  repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	auditRepo repository.AuditLogRepository
	clock     Clock
}

func NewAdminUserUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	auditRepo repository.AuditLogRepository,
	clock Clock,
) *AdminUserUsecase {
	return &AdminUserUsecase{
		userRepo:  userRepo,
		rtRepo:    rtRepo,
		auditRepo: auditRepo,
		clock:     clock,
	}
}

// ロール変更。自分自身のロールは変えられない
func (u *AdminUserUsecase) ChangeRole(ctx context.Context, actorID int64, actorRole model.Role, targetID int64, role model.Role) (model.User, error) {
	if !actorRole.Can(model.PermUpdateUsers) {
		return model.User{}, ErrForbidden
	}
	if actorID == targetID {
		return model.User{}, ErrForbidden
	}
	if !role.Valid() {
		return model.User{}, ErrInvalidRole
	}

	user, err := u.findUser(ctx, targetID)
	if err != nil {
		return model.User{}, err
	}
	before := *user
	if before.Role == role {
		return before, nil
	}

	now := u.clock.Now()
	user.Role = role
	user.UpdatedAt = now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return model.User{}, err
	}
	// 古いロールのトークンを無効化
	if err := u.userRepo.IncrementTokenVersion(ctx, targetID); err != nil {
		return model.User{}, err
	}
	user.TokenVersion++

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       model.AuditActionUpdateRole,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetID,
		BeforeJSON:   marshalRole(before.Role),
		AfterJSON:    marshalRole(role),
		CreatedAt:    now,
	}); err != nil {
		return model.User{}, err
	}
	return *user, nil
}

// 強制ログアウト。token_versionを上げてリフレッシュトークンを全削除
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, actorID int64, actorRole model.Role, targetID int64) error {
	if !actorRole.Can(model.PermUpdateUsers) {
		return ErrForbidden
	}
	if _, err := u.findUser(ctx, targetID); err != nil {
		return err
	}

	if err := u.userRepo.IncrementTokenVersion(ctx, targetID); err != nil {
		return err
	}
	if err := u.rtRepo.DeleteAllByUserID(ctx, targetID); err != nil {
		return err
	}

	return u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       model.AuditActionForceLogout,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetID,
		CreatedAt:    u.clock.Now(),
	})
}

func (u *AdminUserUsecase) findUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func marshalRole(r model.Role) string {
	b, _ := json.Marshal(map[string]model.Role{"role": r})
	return string(b)
}
