package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FeedbackGormRepository struct {
	db *gorm.DB
}

func NewFeedbackGormRepository(db *gorm.DB) *FeedbackGormRepository {
	return &FeedbackGormRepository{db: db}
}

func (r *FeedbackGormRepository) Create(ctx context.Context, f model.Feedback) (model.Feedback, error) {
	err := r.db.WithContext(ctx).Create(&f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.Feedback{}, repo.ErrDuplicate
	}
	if err != nil {
		return model.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

func (r *FeedbackGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Feedback, error) {
	var f model.Feedback
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&f).Error
	if isNotFound(err) {
		return model.Feedback{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Feedback{}, fmt.Errorf("find feedback: %w", err)
	}
	return f, nil
}

func (r *FeedbackGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Feedback, error) {
	var items []model.Feedback
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").Order("id desc").
		Find(&items).Error; err != nil {
		return []model.Feedback{}, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

// 評価の平均（小数2桁）。レビューが無ければ0
func (r *FeedbackGormRepository) AverageRating(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var avg decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Select("AVG(rating)").
		Where("product_id = ?", productID).
		Row().Scan(&avg); err != nil {
		return decimal.Zero, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal.Round(2), nil
}

func (r *FeedbackGormRepository) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return count, nil
}

func (r *FeedbackGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.Feedback{}).Error; err != nil {
		return fmt.Errorf("delete feedback by product: %w", err)
	}
	return nil
}
