package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/auth"
	"github.com/harborline/storefront-api/internal/models"
)

//
// --- User / Auth Handlers ---
//

// RegisterInput holds what we accept from a new customer. Kept separate
// from models.User so a client can never set its own id or role.
type RegisterInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /v1/register
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		internalError(c, "Failed to hash password")
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	now := time.Now()

	result, err := h.DB.Exec(`
		INSERT INTO users (role, email, password_hash, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		models.RoleCustomer, email, password.Hash, input.FullName, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "An account with this email already exists")
			return
		}
		internalError(c, "Failed to create account")
		return
	}

	userID, _ := result.LastInsertId()
	token, err := auth.GenerateToken(userID)
	if err != nil {
		internalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": models.User{
			ID: userID, Role: models.RoleCustomer, Email: email,
			FullName: input.FullName, CreatedAt: now, UpdatedAt: now,
		},
	})
}

// LoginInput is the JSON body for POST /v1/login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, role, email, password_hash, full_name, created_at, updated_at
		FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(input.Email)),
	).Scan(&user.ID, &user.Role, &user.Email, &user.PasswordHash,
		&user.FullName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same message as a wrong password so emails can't be probed
			unauthenticated(c, "Invalid email or password")
			return
		}
		internalError(c, "Failed to look up account")
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil {
		internalError(c, "Failed to verify password")
		return
	}
	if !matches {
		unauthenticated(c, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		internalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me is the handler for GET /v1/profile/me
func (h *Handlers) Me(c *gin.Context) {
	userID, _ := currentUserID(c)

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, role, email, full_name, created_at, updated_at
		FROM users WHERE id = ?`, userID,
	).Scan(&user.ID, &user.Role, &user.Email, &user.FullName,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			unauthenticated(c, "Account no longer exists")
			return
		}
		internalError(c, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateStaffInput is the JSON body for the admin staff-creation endpoint.
type CreateStaffInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// CreateStaff is the handler for POST /v1/admin/create-staff (admin only).
// New staff accounts get the admin role.
func (h *Handlers) CreateStaff(c *gin.Context) {
	var input CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		internalError(c, "Failed to hash password")
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO users (role, email, password_hash, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		models.RoleAdmin, strings.ToLower(strings.TrimSpace(input.Email)),
		password.Hash, input.FullName, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "An account with this email already exists")
			return
		}
		internalError(c, "Failed to create staff account")
		return
	}

	userID, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff account created",
		"userId":  userID,
	})
}
