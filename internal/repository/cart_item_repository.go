package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 所有チェックは全部 user_id 込みで行う（他人の明細は ErrNotFound）
type CartItemRepository interface {
	// 無ければ initialQty で作成、あれば +1（maxQty で頭打ち）。createdは新規作成かどうか
	AddOrIncrement(ctx context.Context, userID int64, productID int64, initialQty int64, maxQty int64) (model.CartItem, bool, error)
	FindByIDForUser(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error
	DeleteForUser(ctx context.Context, userID int64, cartItemID int64) error
	// productをpreloadして返す
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteByProductID(ctx context.Context, productID int64) error
}
