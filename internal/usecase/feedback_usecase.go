package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// レビューは1ユーザー×1商品につき1件。更新・削除はしない。
type FeedbackUsecase struct {
	feedbackRepo repo.FeedbackRepository
	productRepo  repo.ProductRepository
	log          logrus.FieldLogger
}

func NewFeedbackUsecase(
	feedbackRepo repo.FeedbackRepository,
	productRepo repo.ProductRepository,
	log logrus.FieldLogger,
) *FeedbackUsecase {
	return &FeedbackUsecase{
		feedbackRepo: feedbackRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

type SubmitFeedbackInput struct {
	ProductID int64
	Comment   string
	Rating    int
}

type FeedbackListOutput struct {
	Items         []model.Feedback `json:"items"`
	AverageRating decimal.Decimal  `json:"average_rating"`
	Count         int64            `json:"count"`
}

func (u *FeedbackUsecase) Submit(ctx context.Context, userID int64, in SubmitFeedbackInput) (model.Feedback, error) {
	if userID <= 0 {
		return model.Feedback{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.ensureProduct(ctx, in.ProductID); err != nil {
		return model.Feedback{}, err
	}

	v := validator.ValidateFeedback(in.Comment, in.Rating)

	//既にレビュー済みか
	_, err := u.feedbackRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	switch {
	case err == nil:
		v.Add(validator.MsgAlreadyReviewed)
	case errors.Is(err, repo.ErrNotFound):
	default:
		return model.Feedback{}, storageError(u.log, "find feedback", err)
	}

	if !v.OK() {
		return model.Feedback{}, NewValidationError(v)
	}

	f, err := u.feedbackRepo.Create(ctx, model.Feedback{
		UserID:    userID,
		ProductID: in.ProductID,
		Comment:   strings.TrimSpace(in.Comment),
		Rating:    in.Rating,
	})
	//同時に投稿されてユニーク制約で弾かれた場合も同じメッセージ
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Feedback{}, NewValidationError(validator.Violations{validator.MsgAlreadyReviewed})
	}
	if err != nil {
		return model.Feedback{}, storageError(u.log, "create feedback", err)
	}

	metrics.RecordFeedbackSubmitted()
	return f, nil
}

// 平均評価（小数2桁）。レビューが無ければ0
func (u *FeedbackUsecase) AverageRating(ctx context.Context, productID int64) (decimal.Decimal, error) {
	avg, err := u.feedbackRepo.AverageRating(ctx, productID)
	if err != nil {
		return decimal.Zero, storageError(u.log, "average rating", err)
	}
	return avg, nil
}

// 商品のレビュー一覧（新しい順）
func (u *FeedbackUsecase) ListForProduct(ctx context.Context, productID int64) (FeedbackListOutput, error) {
	if err := u.ensureProduct(ctx, productID); err != nil {
		return FeedbackListOutput{}, err
	}

	items, err := u.feedbackRepo.ListByProductID(ctx, productID)
	if err != nil {
		return FeedbackListOutput{}, storageError(u.log, "list feedback", err)
	}
	avg, err := u.AverageRating(ctx, productID)
	if err != nil {
		return FeedbackListOutput{}, err
	}

	return FeedbackListOutput{
		Items:         items,
		AverageRating: avg,
		Count:         int64(len(items)),
	}, nil
}

func (u *FeedbackUsecase) ensureProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	_, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError()
	}
	if err != nil {
		return storageError(u.log, "find product", err)
	}
	return nil
}
