package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

// 無ければ作成、あれば既存行を返す（エラーにはしない）
func (r *WishlistGormRepository) AddIfAbsent(ctx context.Context, userID int64, productID int64) (model.WishlistItem, bool, error) {
	var item model.WishlistItem
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newItem := model.WishlistItem{UserID: userID, ProductID: productID}

		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
				DoNothing: true,
			}).
			Create(&newItem)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected == 1

		return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	})
	if err != nil {
		return model.WishlistItem{}, false, fmt.Errorf("add wishlist item: %w", err)
	}
	return item, created, nil
}

func (r *WishlistGormRepository) Delete(ctx context.Context, userID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("delete wishlist item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WishlistGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at desc").Order("id desc").
		Find(&items).Error; err != nil {
		return []model.WishlistItem{}, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

func (r *WishlistGormRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count wishlist: %w", err)
	}
	return count, nil
}

func (r *WishlistGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.WishlistItem{}).Error; err != nil {
		return fmt.Errorf("delete wishlist by product: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
