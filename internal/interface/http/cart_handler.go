package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/application"
	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/interface/middleware"
	"github.com/blisscet/store-api/pkg/response"
	"github.com/blisscet/store-api/pkg/validation"
)

// CartHandler serves the authenticated user's cart.
type CartHandler struct {
	Cart   *application.CartService
	Logger *logrus.Logger
}

func NewCartHandler(cart *application.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Cart: cart, Logger: logger}
}

// imageRefPayload carries the hosted-image pair as opaque strings. The url
// field doubles as a legacy cart-line key, so it is not required to parse
// as an actual URL.
type imageRefPayload struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type addToCartRequest struct {
	ProductImage imageRefPayload `json:"productImage"`
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	Price        float64         `json:"price" binding:"required,gt=0"`
	Count        int             `json:"count" binding:"omitempty,gt=0"`
}

// itemRefRequest addresses a cart line either by its id or by the product
// image URL for older clients.
type itemRefRequest struct {
	ItemID       string          `json:"itemId"`
	ProductImage imageRefPayload `json:"productImage"`
}

type updateCountRequest struct {
	itemRefRequest
	Count int `json:"count" binding:"required,gt=0"`
}

// AddItem handles POST /products for an authenticated user.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p := entity.Product{
		ProductImage: entity.ImageRef{ID: req.ProductImage.ID, URL: req.ProductImage.URL},
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		Count:        req.Count,
	}

	cart, err := h.Cart.Add(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), p)
	if err != nil {
		h.writeCartError(c, err, "failed to add to cart")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"cart": cart}, "product added to cart", nil)
}

// UpdateCount handles PATCH /products, only the count may change.
func (h *CartHandler) UpdateCount(c *gin.Context) {
	var req updateCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ref := application.ItemRef{ItemID: req.ItemID, ImageURL: req.ProductImage.URL}
	item, err := h.Cart.UpdateCount(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), ref, req.Count)
	if err != nil {
		h.writeCartError(c, err, "failed to update cart")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": item}, "cart updated", nil)
}

// Items handles GET /cart and returns the cart verbatim.
func (h *CartHandler) Items(c *gin.Context) {
	cart, err := h.Cart.Items(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		h.writeCartError(c, err, "failed to load cart")
		return
	}
	if cart == nil {
		cart = []entity.CartItem{}
	}
	response.Success(c, http.StatusOK, cart, "cart", nil)
}

// RemoveItem handles DELETE /cart.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req itemRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ref := application.ItemRef{ItemID: req.ItemID, ImageURL: req.ProductImage.URL}
	if err := h.Cart.Remove(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), ref); err != nil {
		h.writeCartError(c, err, "failed to remove from cart")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product removed from cart", nil)
}

func (h *CartHandler) writeCartError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrProductNotFound):
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "no user found", nil)
	case errors.Is(err, application.ErrCartConflict):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error[any](c, http.StatusInternalServerError, logMsg, nil)
	}
}
