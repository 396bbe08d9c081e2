package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type WishlistRepository interface {
	// 既にあれば既存行と false を返す
	AddIfAbsent(ctx context.Context, userID int64, productID int64) (model.WishlistItem, bool, error)
	Delete(ctx context.Context, userID int64, productID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteByProductID(ctx context.Context, productID int64) error
}
