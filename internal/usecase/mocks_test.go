package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListNew(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.ProductRepository = (*ProductRepoMock)(nil)

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) AddOrIncrement(ctx context.Context, userID int64, productID int64, initialQty int64, maxQty int64) (model.CartItem, bool, error) {
	args := m.Called(ctx, userID, productID, initialQty, maxQty)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Bool(1), args.Error(2)
}

func (m *CartItemRepoMock) FindByIDForUser(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error {
	return m.Called(ctx, userID, cartItemID, qty).Error(0)
}

func (m *CartItemRepoMock) DeleteForUser(ctx context.Context, userID int64, cartItemID int64) error {
	return m.Called(ctx, userID, cartItemID).Error(0)
}

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *CartItemRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

var _ repo.CartItemRepository = (*CartItemRepoMock)(nil)

type FeedbackRepoMock struct{ mock.Mock }

func (m *FeedbackRepoMock) Create(ctx context.Context, f model.Feedback) (model.Feedback, error) {
	args := m.Called(ctx, f)
	created, _ := args.Get(0).(model.Feedback)
	return created, args.Error(1)
}

func (m *FeedbackRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Feedback, error) {
	args := m.Called(ctx, userID, productID)
	f, _ := args.Get(0).(model.Feedback)
	return f, args.Error(1)
}

func (m *FeedbackRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Feedback, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.Feedback)
	return items, args.Error(1)
}

func (m *FeedbackRepoMock) AverageRating(ctx context.Context, productID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *FeedbackRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FeedbackRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

var _ repo.FeedbackRepository = (*FeedbackRepoMock)(nil)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

var _ repo.UserRepository = (*UserRepoMock)(nil)
