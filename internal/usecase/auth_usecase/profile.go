package auth

import (
	"context"
	"errors"
	"strings"

	"foodorder/internal/domain/model"
	"foodorder/internal/repository"
)

// プロフィール更新の入力。nilは変更なし
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

type ProfileUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

func NewProfileUsecase(userRepo repository.UserRepository, hasher PasswordHasher, clock Clock) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, hasher: hasher, clock: clock}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return *user, nil
}

func (u *ProfileUsecase) Update(ctx context.Context, userID int64, in UpdateProfileInput) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < 3 || len([]rune(name)) > 50 {
			return model.User{}, ErrInvalidName
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !isValidEmailFormat(email) {
			return model.User{}, ErrInvalidEmailFormat
		}
		user.Email = email
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return model.User{}, err
		}
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = hashed
	}

	user.UpdatedAt = u.clock.Now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrEmailAlreadyExists
		}
		return model.User{}, err
	}
	return *user, nil
}
