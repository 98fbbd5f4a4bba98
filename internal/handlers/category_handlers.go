package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Category Handlers ---
//

// CreateCategoryInput is the JSON body for POST /v1/admin/categories
type CreateCategoryInput struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// CreateCategory is the handler for POST /v1/admin/categories (admin only)
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	categorySlug := slug.Make(input.Name)
	now := time.Now()

	res, err := h.DB.Exec(`
		INSERT INTO categories (name, slug, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		input.Name, categorySlug, input.ParentID, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "A category with this name already exists")
			return
		}
		internalError(c, "Failed to create category")
		return
	}

	id, _ := res.LastInsertId()
	newCat := models.Category{
		ID: id, Name: input.Name, Slug: categorySlug, ParentID: input.ParentID,
		CreatedAt: now, UpdatedAt: now,
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": newCat})
}

// GetAllCategories is the handler for GET /v1/categories (public)
// Returns the categories as a tree, roots first.
func (h *Handlers) GetAllCategories(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, slug, parent_id, created_at, updated_at
		FROM categories ORDER BY name ASC`)
	if err != nil {
		internalError(c, "Failed to fetch categories")
		return
	}
	defer rows.Close()

	var allCats []models.Category
	for rows.Next() {
		var cat models.Category
		cat.Children = []models.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID,
			&cat.CreatedAt, &cat.UpdatedAt); err != nil {
			internalError(c, "Failed to scan category row")
			return
		}
		allCats = append(allCats, cat)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating category rows")
		return
	}

	// Build the tree: index by ID, then hang children off their parents.
	// Pointers into the slice so appends mutate the real elements.
	catMap := make(map[int64]*models.Category)
	for i := range allCats {
		catMap[allCats[i].ID] = &allCats[i]
	}
	for i := range allCats {
		cat := &allCats[i]
		if cat.ParentID != nil {
			if parent, exists := catMap[*cat.ParentID]; exists {
				parent.Children = append(parent.Children, *cat)
			}
		}
	}

	var rootCats []models.Category
	for i := range allCats {
		if allCats[i].ParentID == nil {
			rootCats = append(rootCats, allCats[i])
		}
	}
	if rootCats == nil {
		rootCats = []models.Category{}
	}

	c.JSON(http.StatusOK, gin.H{"categories": rootCats})
}

// DeleteCategory is the handler for DELETE /v1/admin/categories/:id (admin only)
// Products in the category are detached, not deleted.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		internalError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE products SET category_id = NULL WHERE category_id = ?", categoryID); err != nil {
		internalError(c, "Failed to detach products")
		return
	}
	if _, err := tx.Exec("UPDATE categories SET parent_id = NULL WHERE parent_id = ?", categoryID); err != nil {
		internalError(c, "Failed to detach subcategories")
		return
	}

	result, err := tx.Exec("DELETE FROM categories WHERE id = ?", categoryID)
	if err != nil {
		internalError(c, "Failed to delete category")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Category not found")
		return
	}

	if err := tx.Commit(); err != nil {
		internalError(c, "Failed to commit transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
