package usecase

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/sirupsen/logrus"
)

type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
	log          logrus.FieldLogger
}

func NewWishlistUsecase(
	wishlistRepo repo.WishlistRepository,
	productRepo repo.ProductRepository,
	log logrus.FieldLogger,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

type WishlistAddOutput struct {
	Item    model.WishlistItem `json:"item"`
	Created bool               `json:"created"`
}

// 既に入っていてもエラーにしない（created=false）
func (u *WishlistUsecase) Add(ctx context.Context, userID int64, productID int64) (WishlistAddOutput, error) {
	if userID <= 0 {
		return WishlistAddOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return WishlistAddOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return WishlistAddOutput{}, NewNotFoundError()
	}
	if err != nil {
		return WishlistAddOutput{}, storageError(u.log, "find product", err)
	}

	item, created, err := u.wishlistRepo.AddIfAbsent(ctx, userID, productID)
	if err != nil {
		return WishlistAddOutput{}, storageError(u.log, "add wishlist item", err)
	}
	item.Product = p

	return WishlistAddOutput{Item: item, Created: created}, nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	err := u.wishlistRepo.Delete(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError()
	}
	if err != nil {
		return storageError(u.log, "delete wishlist item", err)
	}
	return nil
}

func (u *WishlistUsecase) Count(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	n, err := u.wishlistRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, storageError(u.log, "count wishlist", err)
	}
	return n, nil
}

// 新しく追加した順
func (u *WishlistUsecase) List(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, storageError(u.log, "list wishlist", err)
	}
	return items, nil
}
