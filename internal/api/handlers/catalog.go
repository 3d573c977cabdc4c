package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/service"
)

func productResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = productResponse(p)
	}
	return out
}

func supplierResponses(suppliers []*domain.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i, s := range suppliers {
		out[i] = supplierResponse(s)
	}
	return out
}

func categoryResponses(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = CategoryResponse{ID: cat.ID, Name: cat.Name, Description: cat.Description}
	}
	return out
}

// HandleGetCatalog handles GET /v1/catalog
func HandleGetCatalog(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		loaded, err := catalog.LoadCatalog(c.Request.Context())
		if err != nil {
			respondError(c, logger, "Failed to load catalog", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products":   productResponses(loaded.Products),
			"categories": categoryResponses(loaded.Categories),
			"suppliers":  supplierResponses(loaded.Suppliers),
		})
	}
}

// HandleListProducts handles GET /v1/products?q=
func HandleListProducts(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.SearchProducts(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, logger, "Failed to list products", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": productResponses(products)})
	}
}

// HandleCreateProduct handles POST /v1/products
func HandleCreateProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		product, err := catalog.CreateProduct(c.Request.Context(), input)
		if err != nil {
			respondError(c, logger, "Failed to create product", err)
			return
		}
		c.JSON(http.StatusCreated, productResponse(product))
	}
}

// HandleUpdateProduct handles PUT /v1/products/:id
func HandleUpdateProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := parseID(c, "id", "product")
		if !ok {
			return
		}

		var input service.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		product, err := catalog.UpdateProduct(c.Request.Context(), productID, input)
		if err != nil {
			respondError(c, logger, "Failed to update product", err)
			return
		}
		c.JSON(http.StatusOK, productResponse(product))
	}
}

// HandleDeleteProduct handles DELETE /v1/products/:id
func HandleDeleteProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := parseID(c, "id", "product")
		if !ok {
			return
		}

		if err := catalog.DeleteProduct(c.Request.Context(), productID); err != nil {
			respondError(c, logger, "Failed to delete product", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, logger, "Failed to list categories", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categoryResponses(categories)})
	}
}

// HandleListSuppliers handles GET /v1/suppliers?q=
func HandleListSuppliers(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		suppliers, err := catalog.SearchSuppliers(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, logger, "Failed to list suppliers", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suppliers": supplierResponses(suppliers)})
	}
}

// HandleCreateSupplier handles POST /v1/suppliers
func HandleCreateSupplier(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.SupplierInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		supplier, err := catalog.CreateSupplier(c.Request.Context(), input)
		if err != nil {
			respondError(c, logger, "Failed to create supplier", err)
			return
		}
		c.JSON(http.StatusCreated, supplierResponse(supplier))
	}
}

// HandleUpdateSupplier handles PUT /v1/suppliers/:id
func HandleUpdateSupplier(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplierID, ok := parseID(c, "id", "supplier")
		if !ok {
			return
		}

		var input service.SupplierInput
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		supplier, err := catalog.UpdateSupplier(c.Request.Context(), supplierID, input)
		if err != nil {
			respondError(c, logger, "Failed to update supplier", err)
			return
		}
		c.JSON(http.StatusOK, supplierResponse(supplier))
	}
}

// HandleDeleteSupplier handles DELETE /v1/suppliers/:id
func HandleDeleteSupplier(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplierID, ok := parseID(c, "id", "supplier")
		if !ok {
			return
		}

		if err := catalog.DeleteSupplier(c.Request.Context(), supplierID); err != nil {
			respondError(c, logger, "Failed to delete supplier", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
