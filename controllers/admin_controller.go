package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bazaar/config"
	"bazaar/models"
)

type AdminController struct{}

func NewAdminController() *AdminController {
	return &AdminController{}
}

// Dashboard godoc
// @Summary Marketplace totals
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /admin/dashboard [get]
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var users, products, activeCarts int
	config.DB.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&users)
	config.DB.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&products)
	config.DB.QueryRow(ctx, "SELECT COUNT(*) FROM carts").Scan(&activeCarts)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Dashboard retrieved",
		Data: gin.H{
			"total_users":    users,
			"total_products": products,
			"active_carts":   activeCarts,
		},
	})
}

// ListUsers godoc
// @Summary List users
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.PaginationResponse
// @Router /admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	ctx := c.Request.Context()

	var total int
	config.DB.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total)

	rows, err := config.DB.Query(ctx, `
		SELECT id, name, username, email, COALESCE(whatsapp, ''), is_admin, created_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	users := []gin.H{}
	for rows.Next() {
		var id int
		var name, username, email, whatsapp string
		var isAdmin bool
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &username, &email, &whatsapp, &isAdmin, &createdAt); err != nil {
			respondError(c, err)
			return
		}
		users = append(users, gin.H{
			"id": id, "name": name, "username": username, "email": email,
			"whatsapp": whatsapp, "is_admin": isAdmin, "created_at": createdAt,
		})
	}

	totalPages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Users retrieved",
		Data:    users,
		Meta:    models.MetaData{Page: page, Limit: limit, TotalItems: total, TotalPages: totalPages},
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Cascades to the user's categories, products and cart
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Response
// @Router /admin/users/{id} [delete]
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if id == c.GetInt("user_id") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "You cannot delete your own account"})
		return
	}

	tag, err := config.DB.Exec(c.Request.Context(), "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		respondError(c, err)
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "User not found"})
		return
	}

	invalidateCache("product_", "profile_")

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "User deleted"})
}
