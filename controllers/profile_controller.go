package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bazaar/models"
	"bazaar/services"
)

type ProfileController struct {
	products *services.ProductService
}

func NewProfileController(products *services.ProductService) *ProfileController {
	return &ProfileController{products: products}
}

// Show godoc
// @Summary Public seller profile
// @Description Seller summary with their active products. Addressed as /@{username}.
// @Tags Profiles
// @Produce json
// @Param username path string true "Username prefixed with @"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /@{username} [get]
func (ctrl *ProfileController) Show(c *gin.Context) {
	// The route is registered as /:username; only @-prefixed segments are
	// profile pages.
	param := c.Param("username")
	if !strings.HasPrefix(param, "@") {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Resource not found"})
		return
	}
	username := strings.TrimPrefix(param, "@")
	ctx := c.Request.Context()

	cacheKey := "profile_" + username
	if cached, ok := cacheGet(ctx, cacheKey); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	seller, products, err := ctrl.products.SellerProfile(ctx, username)
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.Response{
		Success: true,
		Message: "Profile retrieved",
		Data:    gin.H{"user": seller, "products": products},
	}
	cacheSet(ctx, cacheKey, response)

	c.JSON(http.StatusOK, response)
}
