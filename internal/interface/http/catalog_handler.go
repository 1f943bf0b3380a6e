package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/application"
	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
	"github.com/blisscet/store-api/pkg/response"
	"github.com/blisscet/store-api/pkg/uploads"
	"github.com/blisscet/store-api/pkg/validation"
)

// CatalogHandler serves the product catalog: public listing and search,
// and the dashboard's product management.
type CatalogHandler struct {
	Catalog *application.CatalogService
	Images  *application.ImageStore
	Logger  *logrus.Logger
}

func NewCatalogHandler(catalog *application.CatalogService, images *application.ImageStore, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Images: images, Logger: logger}
}

type createProductRequest struct {
	Name     string  `form:"name" json:"name" binding:"required"`
	Category string  `form:"category" json:"category" binding:"required"`
	Price    float64 `form:"price" json:"price" binding:"required,gt=0"`
	Count    int     `form:"count" json:"count" binding:"omitempty,gt=0"`
}

type updateProductRequest struct {
	Name     string   `form:"name" json:"name"`
	Category string   `form:"category" json:"category"`
	Price    *float64 `form:"price" json:"price" binding:"omitempty,gt=0"`
	Count    *int     `form:"count" json:"count" binding:"omitempty,gt=0"`
}

// List handles GET /products.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("failed to list products")
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	response.Success(c, http.StatusOK, products, "products", nil)
}

// Search handles GET /products/search?q=.
func (h *CatalogHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Catalog.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("product search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

// Get handles GET /dashboard/products/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	p, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeCatalogError(c, err, "failed to load product")
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

// Create handles POST /dashboard/products with an optional image upload.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p := &entity.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Count:    req.Count,
	}

	file, err := uploads.Image(c, "productImage", uploads.MaxProductSize)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if file != nil {
		defer file.Close()
		ref, uerr := h.Images.Upload(c.Request.Context(), application.ProductImageFolder, file)
		if uerr != nil {
			h.Logger.WithError(uerr).Error("product image upload failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to store product image", nil)
			return
		}
		p.ProductImage = ref
	}

	if err := h.Catalog.Create(c.Request.Context(), p); err != nil {
		h.Logger.WithError(err).Error("failed to create product")
		response.Error[any](c, http.StatusInternalServerError, "failed to create product", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "product created", nil)
}

// Update handles PATCH /dashboard/products/:id.
func (h *CatalogHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	upd := repository.ProductUpdate{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Count:    req.Count,
	}

	file, err := uploads.Image(c, "productImage", uploads.MaxProductSize)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if file != nil {
		defer file.Close()
		ref, uerr := h.Images.Upload(c.Request.Context(), application.ProductImageFolder, file)
		if uerr != nil {
			h.Logger.WithError(uerr).Error("product image upload failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to store product image", nil)
			return
		}
		upd.Image = &ref
	}

	p, err := h.Catalog.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.writeCatalogError(c, err, "failed to update product")
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

// Delete handles DELETE /dashboard/products/:id.
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeCatalogError(c, err, "failed to delete product")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product deleted", nil)
}

func (h *CatalogHandler) writeCatalogError(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrProductNotFound) {
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error[any](c, http.StatusInternalServerError, logMsg, nil)
}
