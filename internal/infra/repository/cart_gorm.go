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

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 同一商品は +1（上限maxQty）、無ければ initialQty で作成。
// INSERT ... ON CONFLICT DO NOTHING と加算UPDATEを1トランザクションで行うので
// 同時に2回押されても行は1つ、加算も失われない。
func (r *CartGormRepository) AddOrIncrement(ctx context.Context, userID int64, productID int64, initialQty int64, maxQty int64) (model.CartItem, bool, error) {
	if initialQty <= 0 || maxQty <= 0 {
		return model.CartItem{}, false, errors.New("invalid quantity")
	}

	var item model.CartItem
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newItem := model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  initialQty,
		}

		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
				DoNothing: true,
			}).
			Create(&newItem)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			created = true
		} else {
			// 既存ありだったら数量を増やす（上限で止める）
			upd := tx.Model(&model.CartItem{}).
				Where("user_id = ? AND product_id = ?", userID, productID).
				Update("quantity", gorm.Expr("CASE WHEN quantity >= ? THEN ? ELSE quantity + 1 END", maxQty, maxQty))
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return repo.ErrNotFound
			}
		}

		return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, false, err
	}
	if err != nil {
		return model.CartItem{}, false, fmt.Errorf("upsert cart item: %w", err)
	}

	return item, created, nil
}

// 明細を取得（他人のものは ErrNotFound）
func (r *CartGormRepository) FindByIDForUser(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", cartItemID, userID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, fmt.Errorf("find cart item: %w", err)
	}
	return item, nil
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Update("quantity", qty)

	if res.Error != nil {
		return fmt.Errorf("update cart quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartGormRepository) DeleteForUser(ctx context.Context, userID int64, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return fmt.Errorf("delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カート明細を一覧取得
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, fmt.Errorf("list cart items: %w", err)
	}

	return items, nil
}

// 行数（数量の合計ではない）
func (r *CartGormRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}

// チェックアウト後にカートを空にする
func (r *CartGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *CartGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.CartItem{}).Error; err != nil {
		return fmt.Errorf("delete cart items by product: %w", err)
	}
	return nil
}
