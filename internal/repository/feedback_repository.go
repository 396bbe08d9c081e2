package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type FeedbackRepository interface {
	// (user, product) が重複したら ErrDuplicate
	Create(ctx context.Context, f model.Feedback) (model.Feedback, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Feedback, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Feedback, error)
	// レビューが無ければ0
	AverageRating(ctx context.Context, productID int64) (decimal.Decimal, error)
	CountByProductID(ctx context.Context, productID int64) (int64, error)
	DeleteByProductID(ctx context.Context, productID int64) error
}
