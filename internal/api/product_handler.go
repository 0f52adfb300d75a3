package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/models"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	catalog core.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(cs core.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: cs, logger: logger}
}

// ListProducts handles GET /products?category=&featured=true
func (h *ProductHandler) ListProducts(c *gin.Context) {
	h.list(c, core.ProductFilter{
		Category:     c.Query("category"),
		FeaturedOnly: c.Query("featured") == "true",
	})
}

// ListFeatured handles GET /products/featured
func (h *ProductHandler) ListFeatured(c *gin.Context) {
	h.list(c, core.ProductFilter{FeaturedOnly: true})
}

func (h *ProductHandler) list(c *gin.Context, filter core.ProductFilter) {
	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, ProductListResponse{Success: true, Count: len(products), Data: products})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), models.ParseProductID(c.Param("id")))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch product",
			errorMapping{core.ErrNotFound, http.StatusNotFound, "Product not found"})
		return
	}
	c.JSON(http.StatusOK, ProductResponse{Success: true, Data: product})
}
