package usecase

import (
	"context"
	"errors"
	"net/http"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"
)

type FavoriteUsecase struct {
	favorites repo.FavoriteRepository
	products  repo.ProductRepository
}

func NewFavoriteUsecase(favorites repo.FavoriteRepository, products repo.ProductRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favorites: favorites, products: products}
}

type ToggleFavoriteOutput struct {
	ProductID int64 `json:"product_id"`
	Favorited bool  `json:"favorited"`
}

// 登録済みなら外す、無ければ登録
func (u *FavoriteUsecase) Toggle(ctx context.Context, actor Actor, productID int64) (ToggleFavoriteOutput, error) {
	if !actor.Authenticated() {
		return ToggleFavoriteOutput{}, errUnauthorized()
	}
	if productID <= 0 {
		return ToggleFavoriteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if _, err := u.products.FindByID(ctx, productID); err != nil {
		return ToggleFavoriteOutput{}, mapRepoErr(err, "product")
	}

	fav, err := u.favorites.Find(ctx, actor.UserID, productID)
	switch {
	case err == nil:
		if err := u.favorites.Delete(ctx, fav.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return ToggleFavoriteOutput{}, internalError(err)
		}
		return ToggleFavoriteOutput{ProductID: productID, Favorited: false}, nil
	case errors.Is(err, repo.ErrNotFound):
		f := model.Favorite{UserID: actor.UserID, ProductID: productID}
		// 同時に押された場合は登録済み扱い
		if err := u.favorites.Create(ctx, &f); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return ToggleFavoriteOutput{}, internalError(err)
		}
		return ToggleFavoriteOutput{ProductID: productID, Favorited: true}, nil
	default:
		return ToggleFavoriteOutput{}, internalError(err)
	}
}

func (u *FavoriteUsecase) List(ctx context.Context, actor Actor) ([]model.Product, error) {
	if !actor.Authenticated() {
		return nil, errUnauthorized()
	}
	products, err := u.favorites.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, internalError(err)
	}
	return products, nil
}
