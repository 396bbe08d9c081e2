package server

import (
	"storefront/internal/config"
	"storefront/internal/domain/pricing"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 起動に必要なものをまとめたもの
type App struct {
	Echo *echo.Echo
	Auth *usecase.AuthUsecase
}

// Build はrepo → usecase → handler の順に組み立てる
func Build(cfg config.Config, gdb *gorm.DB, log logrus.FieldLogger) (*App, error) {
	surcharge, err := cfg.Surcharge()
	if err != nil {
		return nil, err
	}
	pricer := pricing.NewPricer(surcharge)

	//Repository（GORM実装）
	userRepo := infraRepo.NewUserGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	cartRepo := infraRepo.NewCartGormRepository(gdb)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	feedbackRepo := infraRepo.NewFeedbackGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	//Usecase
	authUC := usecase.NewAuthUsecase(cfg, userRepo, log)
	productUC := usecase.NewProductUsecase(productRepo, feedbackRepo, auditRepo, txm, pricer, log)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, txm, pricer, log)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo, log)
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, pricer, log)
	feedbackUC := usecase.NewFeedbackUsecase(feedbackRepo, productRepo, log)

	//Handler
	h := Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Feedback:     handler.NewFeedbackHandler(feedbackUC),
		Cart:         handler.NewCartHandler(cartUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
	}

	return &App{
		Echo: New(cfg, log, h),
		Auth: authUC,
	}, nil
}
