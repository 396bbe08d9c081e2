package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// トップに出す新着商品の数
const FeaturedLimit = 4

// 検索ワードの最大長
const MaxQueryLength = 100

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	feedbackRepo repo.FeedbackRepository
	auditRepo    repo.AuditLogRepository
	txm          repo.TransactionManager
	pricer       *pricing.Pricer
	log          logrus.FieldLogger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	feedbackRepo repo.FeedbackRepository,
	auditRepo repo.AuditLogRepository,
	txm repo.TransactionManager,
	pricer *pricing.Pricer,
	log logrus.FieldLogger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		feedbackRepo: feedbackRepo,
		auditRepo:    auditRepo,
		txm:          txm,
		pricer:       pricer,
		log:          log,
	}
}

// 商品 + 支払額
type ProductView struct {
	model.Product
	FinalPrice decimal.Decimal `json:"final_price"`
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

type ProductListOutput struct {
	Items []ProductView `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type ProductDetailOutput struct {
	Product       ProductView     `json:"product"`
	AverageRating decimal.Decimal `json:"average_rating"`
	FeedbackCount int64           `json:"feedback_count"`
}

func (u *ProductUsecase) view(p model.Product) ProductView {
	return ProductView{Product: p, FinalPrice: u.pricer.FinalPrice(p)}
}

func (u *ProductUsecase) views(items []model.Product) []ProductView {
	out := make([]ProductView, 0, len(items))
	for _, p := range items {
		out = append(out, u.view(p))
	}
	return out
}

// 名前・説明の部分一致で検索（大文字小文字は区別しない）
func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if err := validatePaging(in.Page, in.Limit); err != nil {
		return ProductListOutput{}, err
	}
	if len(in.Q) > MaxQueryLength {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		return ProductListOutput{}, storageError(u.log, "list products", err)
	}

	return ProductListOutput{
		Items: u.views(items),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// is_new の商品を最大4件
func (u *ProductUsecase) Featured(ctx context.Context) ([]ProductView, error) {
	items, err := u.productRepo.ListNew(ctx, FeaturedLimit)
	if err != nil {
		return nil, storageError(u.log, "list featured products", err)
	}
	return u.views(items), nil
}

// 商品詳細（支払額・平均評価・レビュー数つき）
func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewNotFoundError()
	}
	if err != nil {
		return ProductDetailOutput{}, storageError(u.log, "find product", err)
	}

	avg, err := u.feedbackRepo.AverageRating(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, storageError(u.log, "average rating", err)
	}
	count, err := u.feedbackRepo.CountByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, storageError(u.log, "count feedback", err)
	}

	return ProductDetailOutput{
		Product:       u.view(p),
		AverageRating: avg,
		FeedbackCount: count,
	}, nil
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Category    *string
	IsNew       bool
}

func (in AdminProductInput) validate() error {
	v := validator.ValidateProduct(validator.ProductInput{
		Name:     in.Name,
		Price:    in.Price,
		Discount: in.Discount,
	})
	if !v.OK() {
		return NewValidationError(v)
	}
	return nil
}

func (in AdminProductInput) toModel() model.Product {
	var category *string
	if in.Category != nil {
		if c := strings.TrimSpace(*in.Category); c != "" {
			category = &c
		}
	}
	return model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Discount:    in.Discount,
		Category:    category,
		IsNew:       in.IsNew,
	}
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (ProductView, error) {
	if adminUserID <= 0 {
		return ProductView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return ProductView{}, err
	}

	var created model.Product
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().Create(ctx, in.toModel())
		if err != nil {
			return err
		}
		created = p

		//監査ログ（作成）
		return r.AuditLogs().Create(ctx, newProductAudit(adminUserID, model.AuditActionCreateProduct, p.ID, nil, &p))
	})
	if err != nil {
		return ProductView{}, txError(u.log, "create product", err)
	}

	u.log.WithFields(logrus.Fields{"admin_id": adminUserID, "product_id": created.ID}).Info("product created")
	return u.view(created), nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) (ProductView, error) {
	if adminUserID <= 0 {
		return ProductView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return ProductView{}, err
	}

	var updated model.Product
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError()
		}
		if err != nil {
			return err
		}

		p := in.toModel()
		p.ID = productID
		if err := r.Products().Update(ctx, p); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError()
			}
			return err
		}

		after, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		updated = after

		return r.AuditLogs().Create(ctx, newProductAudit(adminUserID, model.AuditActionUpdateProduct, productID, &before, &after))
	})
	if err != nil {
		return ProductView{}, txError(u.log, "update product", err)
	}

	u.log.WithFields(logrus.Fields{"admin_id": adminUserID, "product_id": productID}).Info("product updated")
	return u.view(updated), nil
}

// カート・ほしい物リスト・レビューも一緒に消す。注文が残っている商品は消せない（409）
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError()
		}
		if err != nil {
			return err
		}

		ordered, err := r.Orders().ExistsForProduct(ctx, productID)
		if err != nil {
			return err
		}
		if ordered {
			return NewHTTPError(http.StatusConflict, "product has orders")
		}

		if err := r.CartItems().DeleteByProductID(ctx, productID); err != nil {
			return err
		}
		if err := r.Wishlist().DeleteByProductID(ctx, productID); err != nil {
			return err
		}
		if err := r.Feedback().DeleteByProductID(ctx, productID); err != nil {
			return err
		}
		if err := r.Products().Delete(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError()
			}
			return err
		}

		return r.AuditLogs().Create(ctx, newProductAudit(adminUserID, model.AuditActionDeleteProduct, productID, &before, nil))
	})
	if err != nil {
		return txError(u.log, "delete product", err)
	}

	u.log.WithFields(logrus.Fields{"admin_id": adminUserID, "product_id": productID}).Info("product deleted")
	return nil
}

type ListAuditLogsInput struct {
	ActorUserID *int64
	Action      string
	ResourceID  *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// 管理者の操作履歴（新しい順）
func (u *ProductUsecase) AdminListAuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.CreatedFrom != nil && in.CreatedTo != nil && in.CreatedFrom.After(*in.CreatedTo) {
		return nil, NewHTTPError(http.StatusBadRequest, "created_from must be before created_to")
	}

	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.CreatedFrom,
		CreatedTo:   in.CreatedTo,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(strings.ToUpper(in.Action))
		switch a {
		case model.AuditActionCreateProduct, model.AuditActionUpdateProduct, model.AuditActionDeleteProduct:
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		filter.Action = &a
	}
	rt := model.AuditResourceProduct
	filter.ResourceType = &rt

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError(u.log, "list audit logs", err)
	}
	return logs, nil
}

// 「誰が」「何を」「どの対象に」「どう変えたか」
func newProductAudit(actorID int64, action model.AuditAction, productID int64, before *model.Product, after *model.Product) model.AuditLog {
	return model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   productJSON(before),
		AfterJSON:    productJSON(after),
		CreatedAt:    time.Now(),
	}
}

func productJSON(p *model.Product) string {
	if p == nil {
		return ""
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
