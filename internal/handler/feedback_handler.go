package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products/:id/feedback
type FeedbackHandler struct {
	uc *usecase.FeedbackUsecase
}

func NewFeedbackHandler(uc *usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{uc: uc}
}

type SubmitFeedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// 一覧は誰でも、投稿はログインユーザーのみ
func (h *FeedbackHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products/:id/feedback", h.list)
	e.POST("/products/:id/feedback", h.submit, middleware.AuthJWT(cfg))
}

func (h *FeedbackHandler) list(c echo.Context) error {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.ListForProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FeedbackHandler) submit(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req SubmitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	f, err := h.uc.Submit(c.Request().Context(), userID, usecase.SubmitFeedbackInput{
		ProductID: productID,
		Comment:   req.Comment,
		Rating:    req.Rating,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, f)
}
