package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	repo "storefront/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func createProduct(t *testing.T, gdb *gorm.DB, name string, isNew bool) model.Product {
	t.Helper()

	p, err := NewProductGormRepository(gdb).Create(context.Background(), model.Product{
		Name:        name,
		Description: "about " + name,
		Price:       decimal.NewFromInt(100),
		IsNew:       isNew,
	})
	require.NoError(t, err)
	return p
}

func TestProductGormRepository_FindByID_NotFound(t *testing.T) {
	r := NewProductGormRepository(setupTestDB(t))

	_, err := r.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	err = r.Update(context.Background(), model.Product{ID: 1, Name: "x"})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	err = r.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGormRepository_ListAndListNew(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	r := NewProductGormRepository(gdb)

	createProduct(t, gdb, "Red Mug", true)
	createProduct(t, gdb, "Green mug", false)
	createProduct(t, gdb, "Fork", true)

	items, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 10, Q: "MUG"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = r.List(ctx, repo.ProductListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 1)

	news, err := r.ListNew(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, news, 2)
}

func TestCartGormRepository_AddOrIncrement(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	p := createProduct(t, gdb, "Mug", false)
	r := NewCartGormRepository(gdb)

	item, created, err := r.AddOrIncrement(ctx, 1, p.ID, 9, 10)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(9), item.Quantity)

	for i := 0; i < 3; i++ {
		item, created, err = r.AddOrIncrement(ctx, 1, p.ID, 1, 10)
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.Equal(t, int64(10), item.Quantity)

	n, err := r.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	//別ユーザーは別の行
	_, created, err = r.AddOrIncrement(ctx, 2, p.ID, 1, 10)
	require.NoError(t, err)
	assert.True(t, created)

	_, _, err = r.AddOrIncrement(ctx, 1, p.ID, 0, 10)
	assert.Error(t, err)
}

func TestCartGormRepository_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	p := createProduct(t, gdb, "Mug", false)
	r := NewCartGormRepository(gdb)

	item, _, err := r.AddOrIncrement(ctx, 1, p.ID, 1, 10)
	require.NoError(t, err)

	_, err = r.FindByIDForUser(ctx, 2, item.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, r.UpdateQuantity(ctx, 2, item.ID, 5), repo.ErrNotFound)
	assert.ErrorIs(t, r.DeleteForUser(ctx, 2, item.ID), repo.ErrNotFound)

	got, err := r.FindByIDForUser(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Product.Name)

	require.NoError(t, r.DeleteByUserID(ctx, 1))
	items, err := r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistGormRepository_AddIfAbsent(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	p := createProduct(t, gdb, "Mug", false)
	r := NewWishlistGormRepository(gdb)

	first, created, err := r.AddIfAbsent(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := r.AddIfAbsent(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	require.NoError(t, r.Delete(ctx, 1, p.ID))
	assert.ErrorIs(t, r.Delete(ctx, 1, p.ID), repo.ErrNotFound)
}

func TestFeedbackGormRepository(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	p := createProduct(t, gdb, "Mug", false)
	r := NewFeedbackGormRepository(gdb)

	avg, err := r.AverageRating(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())

	_, err = r.Create(ctx, model.Feedback{UserID: 1, ProductID: p.ID, Comment: "nice and sturdy", Rating: 3})
	require.NoError(t, err)
	_, err = r.Create(ctx, model.Feedback{UserID: 2, ProductID: p.ID, Comment: "great mug really", Rating: 5})
	require.NoError(t, err)

	//同じユーザー・同じ商品はユニーク制約
	_, err = r.Create(ctx, model.Feedback{UserID: 1, ProductID: p.ID, Comment: "second attempt here", Rating: 1})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	avg, err = r.AverageRating(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4).Equal(avg), "got %s", avg)

	n, err := r.CountByProductID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = r.FindByUserAndProduct(ctx, 3, p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserGormRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserGormRepository(setupTestDB(t))

	u := &model.User{Username: "taro", Email: "Taro@example.com", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, r.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := &model.User{Username: "taro", Email: "other@example.com", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	assert.ErrorIs(t, r.Create(ctx, dup), repo.ErrDuplicate)

	got, err := r.FindByEmail(ctx, "taro@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.FindByUsername(ctx, "hanako")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderGormRepository_ExistsForProduct(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	p := createProduct(t, gdb, "Mug", false)
	r := NewOrderGormRepository(gdb)

	ok, err := r.ExistsForProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Create(ctx, model.Order{
		UserID:       1,
		ProductID:    p.ID,
		CustomerName: "Hanako",
		Email:        "h@example.com",
		Mobile:       "1234567890",
		Status:       model.OrderStatusPending,
		Quantity:     1,
		TotalAmount:  decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	ok, err = r.ExistsForProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTxManagerGorm_RollsBack(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	p := createProduct(t, gdb, "Mug", false)
	tm := NewTxManagerGorm(gdb)

	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, _, err := r.CartItems().AddOrIncrement(ctx, 1, p.ID, 1, 10); err != nil {
			return err
		}
		if _, _, err := r.Wishlist().AddIfAbsent(ctx, 1, p.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := NewCartGormRepository(gdb).CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = NewWishlistGormRepository(gdb).CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

// postgresのドライバ越しにDBエラーを起こす
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestProductGormRepository_FindByID_StorageError(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewProductGormRepository(gdb)

	cause := errors.New("connection reset by peer")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE "products"."id" = $1`)).
		WillReturnError(cause)

	_, err := r.FindByID(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackGormRepository_AverageRating_Postgres(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewFeedbackGormRepository(gdb)

	//postgresのAVGはnumericで返る
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT AVG(rating) FROM "feedback" WHERE product_id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow("3.6666666666666667"))

	avg, err := r.AverageRating(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.67").Equal(avg), "got %s", avg)
	assert.NoError(t, mock.ExpectationsWereMet())
}
