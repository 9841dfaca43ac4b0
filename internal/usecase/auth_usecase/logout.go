package auth

import (
	"context"
	"errors"

	"foodorder/internal/repository"
)

type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
	clock  Clock
}

func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo, clock: clock}
}

// リフレッシュトークンを失効させる。本人のトークンだけ。
func (u *LogoutUsecase) Execute(ctx context.Context, userID int64, refreshToken string) error {
	if refreshToken == "" {
		return ErrInvalidRefreshToken
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	if rt.UserID != userID {
		return ErrInvalidRefreshToken
	}

	// すでに失効済みでもログアウトは成功扱い
	if err := u.rtRepo.Revoke(ctx, rt.ID, u.clock.Now()); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
