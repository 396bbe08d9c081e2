package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テスト用のインメモリSQLite
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, name string, price string, discount string, isNew bool) model.Product {
	t.Helper()

	p, err := infraRepo.NewProductGormRepository(gdb).Create(context.Background(), model.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Discount:    decimal.RequireFromString(discount),
		IsNew:       isNew,
	})
	require.NoError(t, err)
	return p
}

func testPricer() *pricing.Pricer {
	return pricing.NewPricer(pricing.DefaultSurcharge)
}

type testUsecases struct {
	db       *gorm.DB
	products *ProductUsecase
	cart     *CartUsecase
	wishlist *WishlistUsecase
	orders   *OrderUsecase
	feedback *FeedbackUsecase
}

// 実DB（SQLite）のrepoで全部組み立てる
func newTestUsecases(t *testing.T) testUsecases {
	t.Helper()

	gdb := newTestDB(t)
	log := logging.Discard()
	pricer := testPricer()

	productRepo := infraRepo.NewProductGormRepository(gdb)
	cartRepo := infraRepo.NewCartGormRepository(gdb)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	feedbackRepo := infraRepo.NewFeedbackGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	return testUsecases{
		db:       gdb,
		products: NewProductUsecase(productRepo, feedbackRepo, auditRepo, txm, pricer, log),
		cart:     NewCartUsecase(cartRepo, productRepo, txm, pricer, log),
		wishlist: NewWishlistUsecase(wishlistRepo, productRepo, log),
		orders:   NewOrderUsecase(orderRepo, productRepo, pricer, log),
		feedback: NewFeedbackUsecase(feedbackRepo, productRepo, log),
	}
}

// HTTPErrorのstatusとdetailsを確認
func requireHTTPError(t *testing.T, err error, status int) *HTTPError {
	t.Helper()

	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, status, he.Status)
	return he
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
