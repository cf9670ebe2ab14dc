package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaar/models"
	"bazaar/services"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// View godoc
// @Summary View own cart
// @Description Seller summary plus items with product snapshots. Data is null without a cart.
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) View(c *gin.Context) {
	view, err := ctrl.carts.View(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if view == nil {
		c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart is empty"})
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart retrieved", Data: view})
}

// AddItem godoc
// @Summary Add product to cart
// @Description Creates the cart lazily, pinned to the product's seller. Repeat adds increment quantity.
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/{productId} [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	productID, _ := strconv.Atoi(c.Param("productId"))

	if err := ctrl.carts.AddItem(c.Request.Context(), c.GetInt("user_id"), productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product added to cart"})
}

// SetQuantity godoc
// @Summary Set cart item quantity
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param itemId path int true "Cart item ID"
// @Param request body models.SetQuantityRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/{itemId} [patch]
func (ctrl *CartController) SetQuantity(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("itemId"))

	var req models.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request: " + err.Error()})
		return
	}

	if err := ctrl.carts.SetQuantity(c.Request.Context(), c.GetInt("user_id"), itemID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart updated"})
}

// RemoveItem godoc
// @Summary Remove cart item
// @Description Removing the last item deletes the cart itself
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param itemId path int true "Cart item ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /cart/{itemId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("itemId"))

	if err := ctrl.carts.RemoveItem(c.Request.Context(), c.GetInt("user_id"), itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Item removed from cart"})
}

// Clear godoc
// @Summary Empty the cart
// @Description Deletes all items and the cart. No-op without a cart.
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) Clear(c *gin.Context) {
	if err := ctrl.carts.Clear(c.Request.Context(), c.GetInt("user_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart emptied"})
}

// Payment godoc
// @Summary Checkout payment (stub)
// @Description Payment processing is not implemented
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 501 {object} models.ErrorResponse
// @Router /checkout/payment [get]
func (ctrl *CartController) Payment(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, models.ErrorResponse{Success: false, Message: "Payment is not implemented. Contact the seller via WhatsApp to complete the order"})
}
