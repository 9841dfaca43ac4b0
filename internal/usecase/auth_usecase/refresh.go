package auth

import (
	"context"
	"errors"
	"time"

	"foodorder/internal/repository"
)

type RefreshInput struct {
	RefreshToken string
	UserAgent    string
}

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

// RefreshUsecase はリフレッシュトークンをローテーションする。
// 使用済みトークンが来たら盗まれたものとして、そのユーザーの全トークンを消す。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (RefreshOutput, LoginSideEffect, error) {
	var out RefreshOutput
	var side LoginSideEffect

	if in.RefreshToken == "" {
		return out, side, ErrInvalidRefreshToken
	}

	//DB照合
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(in.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}

	now := u.clock.Now()

	//used済みが来たら replay → 全削除
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReused
	}
	if !rt.Usable(now) {
		return out, side, ErrInvalidRefreshToken
	}

	//user取得
	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}
	if !user.IsActive {
		return out, side, ErrUserInactive
	}

	//旧tokenをusedにする（同時に2回来たら片方は負ける）
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
			return out, side, ErrRefreshTokenReused
		}
		return out, side, err
	}

	userAgent := in.UserAgent
	if userAgent == "" {
		userAgent = rt.UserAgent
	}
	token, plainRefresh, err := issueTokenPair(ctx, u.issuer, u.rtRepo, u.idGen, user, userAgent, now, u.refreshTTL)
	if err != nil {
		return out, side, err
	}

	out.Token = token
	side.PlainRefreshToken = plainRefresh
	return out, side, nil
}
