package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartUsecase は /cart の業務ロジックです。
// カートは (user, product) ごとに1行で、数量は1〜10。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	txm          repo.TransactionManager
	pricer       *pricing.Pricer
	log          logrus.FieldLogger
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	txm repo.TransactionManager,
	pricer *pricing.Pricer,
	log logrus.FieldLogger,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		txm:          txm,
		pricer:       pricer,
		log:          log,
	}
}

// カート明細の返却用
// price は商品の現在価格（割引・手数料なし）
type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
	Count int64              `json:"count"`
}

type AddCartInput struct {
	ProductID int64
	//新規作成のときだけ使う（既存行は常に+1）
	Quantity int64
}

type AddCartOutput struct {
	Item    CartItemResponse `json:"item"`
	Created bool             `json:"created"`
}

type UpdateCartItemInput struct {
	Quantity int64
}

type CheckoutInput struct {
	CustomerName string
	Mobile       string
	Email        string
	Address      *string
}

type CheckoutOutput struct {
	Orders []model.Order   `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

func toCartItemResponse(it model.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Name:      it.Product.Name,
		Price:     it.Product.Price,
		Quantity:  it.Quantity,
		LineTotal: it.Product.Price.Mul(decimal.NewFromInt(it.Quantity)),
	}
}

// 1〜10に収める
func clampCartQuantity(q int64) int64 {
	if q < model.CartMinQuantity {
		return model.CartMinQuantity
	}
	if q > model.CartMaxQuantity {
		return model.CartMaxQuantity
	}
	return q
}

// カートに追加（同一商品は+1、上限10）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (AddCartOutput, error) {
	if userID <= 0 {
		return AddCartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return AddCartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return AddCartOutput{}, NewNotFoundError()
	}
	if err != nil {
		return AddCartOutput{}, storageError(u.log, "find product", err)
	}

	item, created, err := u.cartItemRepo.AddOrIncrement(ctx, userID, p.ID, clampCartQuantity(in.Quantity), model.CartMaxQuantity)
	if errors.Is(err, repo.ErrNotFound) {
		return AddCartOutput{}, NewNotFoundError()
	}
	if err != nil {
		return AddCartOutput{}, storageError(u.log, "add cart item", err)
	}
	item.Product = p

	metrics.RecordCartAdd(created)
	return AddCartOutput{Item: toCartItemResponse(item), Created: created}, nil
}

// 数量を変更。0以下は何もしない（エラーにもしない）
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.cartItemRepo.FindByIDForUser(ctx, userID, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemResponse{}, NewNotFoundError()
	}
	if err != nil {
		return CartItemResponse{}, storageError(u.log, "find cart item", err)
	}

	if in.Quantity <= 0 {
		return toCartItemResponse(item), nil
	}

	qty := clampCartQuantity(in.Quantity)
	if err := u.cartItemRepo.UpdateQuantity(ctx, userID, cartItemID, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemResponse{}, NewNotFoundError()
		}
		return CartItemResponse{}, storageError(u.log, "update cart item", err)
	}
	item.Quantity = qty

	return toCartItemResponse(item), nil
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.cartItemRepo.DeleteForUser(ctx, userID, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError()
	}
	if err != nil {
		return storageError(u.log, "delete cart item", err)
	}
	return nil
}

// Σ 数量 × 商品価格（割引・手数料は含めない）
func (u *CartUsecase) TotalPrice(ctx context.Context, userID int64) (decimal.Decimal, error) {
	items, err := u.listItems(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return cartTotal(items), nil
}

// GetCart と TotalPrice 共通の取得
func (u *CartUsecase) listItems(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, storageError(u.log, "list cart items", err)
	}
	return items, nil
}

func cartTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

// 行数
func (u *CartUsecase) Count(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	n, err := u.cartItemRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, storageError(u.log, "count cart items", err)
	}
	return n, nil
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := u.listItems(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	out := CartResponse{
		Items: make([]CartItemResponse, 0, len(items)),
		Total: cartTotal(items),
		Count: int64(len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, toCartItemResponse(it))
	}
	return out, nil
}

// カートの全行を注文にしてカートを空にする（1トランザクション）。
// 注文の金額は支払額（手数料・割引込み）で計算する。
func (u *CartUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	contact := validator.OrderContact{
		CustomerName: in.CustomerName,
		Mobile:       in.Mobile,
		Email:        in.Email,
	}

	var out CheckoutOutput
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}

		v := validator.ValidateOrderContact(contact)
		if len(items) == 0 {
			v.Add(validator.MsgCartEmpty)
		}
		if !v.OK() {
			return NewValidationError(v)
		}

		out.Orders = make([]model.Order, 0, len(items))
		out.Total = decimal.Zero
		for _, it := range items {
			o, err := r.Orders().Create(ctx, model.Order{
				UserID:       userID,
				ProductID:    it.ProductID,
				CustomerName: strings.TrimSpace(in.CustomerName),
				Email:        strings.TrimSpace(in.Email),
				Mobile:       in.Mobile,
				Address:      normalizeAddress(in.Address),
				Status:       model.OrderStatusPending,
				Quantity:     it.Quantity,
				TotalAmount:  u.pricer.LineTotal(it.Product, it.Quantity),
			})
			if err != nil {
				return err
			}
			o.Product = it.Product
			out.Orders = append(out.Orders, o)
			out.Total = out.Total.Add(o.TotalAmount)
		}

		return r.CartItems().DeleteByUserID(ctx, userID)
	})
	if err != nil {
		return CheckoutOutput{}, txError(u.log, "checkout", err)
	}

	metrics.RecordOrdersPlaced(metrics.SourceCheckout, len(out.Orders))
	u.log.WithFields(logrus.Fields{
		"user_id": userID,
		"orders":  len(out.Orders),
		"total":   out.Total.String(),
	}).Info("cart checked out")

	return out, nil
}

// 空文字の住所は NULL にする
func normalizeAddress(addr *string) *string {
	if addr == nil {
		return nil
	}
	a := strings.TrimSpace(*addr)
	if a == "" {
		return nil
	}
	return &a
}
