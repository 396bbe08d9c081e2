package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 保存・取得を約束（見つからなければ ErrNotFound）
type UserRepository interface {
	//新規ユーザー作成（username/email重複は ErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最後のログインなど
	Update(ctx context.Context, user *model.User) error
}
