package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Catalog Handlers ---
//

// ListProducts is the handler for GET /v1/products
// Supports ?category=<slug> and ?q=<search> filters. Only active products
// are ever returned on the public listing.
func (h *Handlers) ListProducts(c *gin.Context) {
	query := `
		SELECT p.id, p.category_id, p.slug, p.name, p.description, p.price,
		       p.compare_at_price, p.image, p.stock_quantity, p.active,
		       p.created_at, p.updated_at
		FROM products p`
	args := []interface{}{}
	where := " WHERE p.active = 1"

	if categorySlug := c.Query("category"); categorySlug != "" {
		query += " JOIN categories cat ON p.category_id = cat.id"
		where += " AND cat.slug = ?"
		args = append(args, categorySlug)
	}
	if search := c.Query("q"); search != "" {
		where += " AND (p.name LIKE ? OR p.description LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	rows, err := h.DB.Query(query+where+" ORDER BY p.name ASC", args...)
	if err != nil {
		internalError(c, "Failed to fetch products")
		return
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.CategoryID, &p.Slug, &p.Name, &p.Description, &p.Price,
			&p.CompareAtPrice, &p.Image, &p.StockQuantity, &p.Active,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			internalError(c, "Failed to scan product row")
			return
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating product rows")
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:slug
// Returns the product with its category and review summary.
func (h *Handlers) GetProduct(c *gin.Context) {
	productSlug := c.Param("slug")

	var p models.Product
	err := h.DB.QueryRow(`
		SELECT id, category_id, slug, name, description, price,
		       compare_at_price, image, stock_quantity, active,
		       created_at, updated_at
		FROM products
		WHERE slug = ? AND active = 1`, productSlug,
	).Scan(&p.ID, &p.CategoryID, &p.Slug, &p.Name, &p.Description, &p.Price,
		&p.CompareAtPrice, &p.Image, &p.StockQuantity, &p.Active,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Product not found")
			return
		}
		internalError(c, "Failed to fetch product")
		return
	}

	// Attach the category, if any
	if p.CategoryID != nil {
		var cat models.Category
		err := h.DB.QueryRow(`
			SELECT id, name, slug, parent_id, created_at, updated_at
			FROM categories WHERE id = ?`, *p.CategoryID,
		).Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID, &cat.CreatedAt, &cat.UpdatedAt)
		if err == nil {
			p.Category = &cat
		}
		// A dangling category_id just leaves Category nil
	}

	// Attach the review summary
	stats, err := h.reviewStatsForProduct(p.ID)
	if err != nil {
		internalError(c, "Failed to compute review stats")
		return
	}
	p.Reviews = &stats

	c.JSON(http.StatusOK, gin.H{"product": p})
}

// ProductInput is the JSON body for the admin create/update endpoints.
type ProductInput struct {
	CategoryID     *int64   `json:"categoryId"`
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	Image          string   `json:"image"`
	Stock          int      `json:"stock" binding:"gte=0"`
	Active         *bool    `json:"active"`
}

// CreateProduct is the handler for POST /v1/admin/products (admin only)
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	productSlug := slug.Make(input.Name)
	now := time.Now()

	result, err := h.DB.Exec(`
		INSERT INTO products
		(category_id, slug, name, description, price, compare_at_price,
		 image, stock_quantity, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.CategoryID, productSlug, input.Name, input.Description,
		input.Price, input.CompareAtPrice, input.Image, input.Stock,
		active, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "A product with this name already exists")
			return
		}
		internalError(c, "Failed to create product")
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created",
		"product": gin.H{"id": id, "slug": productSlug},
	})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id (admin only)
func (h *Handlers) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	// The slug follows the name so storefront URLs stay readable.
	// Existing orders are unaffected: order items snapshot the name.
	productSlug := slug.Make(input.Name)

	result, err := h.DB.Exec(`
		UPDATE products
		SET category_id = ?, slug = ?, name = ?, description = ?, price = ?,
		    compare_at_price = ?, image = ?, stock_quantity = ?, active = ?,
		    updated_at = ?
		WHERE id = ?`,
		input.CategoryID, productSlug, input.Name, input.Description,
		input.Price, input.CompareAtPrice, input.Image, input.Stock,
		active, time.Now(), productID)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "A product with this name already exists")
			return
		}
		internalError(c, "Failed to update product")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		notFound(c, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id (admin only)
// Products referenced by orders are deactivated rather than deleted so
// order history keeps resolving.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	var referenced bool
	err := h.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id = ?)", productID,
	).Scan(&referenced)
	if err != nil {
		internalError(c, "Failed to check product references")
		return
	}

	if referenced {
		result, err := h.DB.Exec(
			"UPDATE products SET active = 0, updated_at = ? WHERE id = ?",
			time.Now(), productID)
		if err != nil {
			internalError(c, "Failed to deactivate product")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			notFound(c, "Product not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product has existing orders and was deactivated instead"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", productID)
	if err != nil {
		internalError(c, "Failed to delete product")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
