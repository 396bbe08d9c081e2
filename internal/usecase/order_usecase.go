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

	"github.com/sirupsen/logrus"
)

// OrderUsecase は「今すぐ購入」と注文履歴。
// 在庫は持たないので減らさない。
type OrderUsecase struct {
	orderRepo   repo.OrderRepository
	productRepo repo.ProductRepository
	pricer      *pricing.Pricer
	log         logrus.FieldLogger
}

func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	productRepo repo.ProductRepository,
	pricer *pricing.Pricer,
	log logrus.FieldLogger,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		pricer:      pricer,
		log:         log,
	}
}

type PlaceOrderInput struct {
	ProductID    int64
	CustomerName string
	Mobile       string
	Email        string
	Address      *string
	Quantity     int64
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 入力は全部チェックしてからまとめて返す（途中で止めない）
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	v := validator.ValidatePlaceOrder(validator.OrderContact{
		CustomerName: in.CustomerName,
		Mobile:       in.Mobile,
		Email:        in.Email,
	}, in.Quantity)
	if !v.OK() {
		return model.Order{}, NewValidationError(v)
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFoundError()
	}
	if err != nil {
		return model.Order{}, storageError(u.log, "find product", err)
	}

	o, err := u.orderRepo.Create(ctx, model.Order{
		UserID:       userID,
		ProductID:    p.ID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Email:        strings.TrimSpace(in.Email),
		Mobile:       in.Mobile,
		Address:      normalizeAddress(in.Address),
		Status:       model.OrderStatusPending,
		Quantity:     in.Quantity,
		TotalAmount:  u.pricer.LineTotal(p, in.Quantity),
	})
	if err != nil {
		return model.Order{}, storageError(u.log, "create order", err)
	}
	o.Product = p

	metrics.RecordOrdersPlaced(metrics.SourceBuyNow, 1)
	u.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"order_id":   o.ID,
		"product_id": p.ID,
		"total":      o.TotalAmount.String(),
	}).Info("order placed")

	return o, nil
}

// 自分の注文（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validatePaging(page, limit); err != nil {
		return OrderListOutput{}, err
	}

	items, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, storageError(u.log, "list orders", err)
	}

	return OrderListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// 他人の注文は存在しない扱い
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFoundError()
	}
	if err != nil {
		return model.Order{}, storageError(u.log, "find order", err)
	}
	if o.UserID != userID {
		return model.Order{}, NewNotFoundError()
	}
	return o, nil
}
