package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaar/models"
	"bazaar/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func productCacheKey(id int) string {
	return fmt.Sprintf("product_%d", id)
}

// formFiles pulls the optional digital file and image uploads out of the
// multipart form.
func formFiles(c *gin.Context) (*multipart.FileHeader, []*multipart.FileHeader) {
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	var images []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		images = mf.File["images[]"]
		if len(images) == 0 {
			images = mf.File["images"]
		}
	}
	return file, images
}

// List godoc
// @Summary List own products
// @Description Paginated list of the caller's products, newest first
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := ctrl.products.ListOwned(c.Request.Context(), c.GetInt("user_id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Public product detail
// @Description Product with category, images and seller summary. No ownership check.
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	ctx := c.Request.Context()

	if cached, ok := cacheGet(ctx, productCacheKey(id)); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	product, err := ctrl.products.GetPublic(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.Response{Success: true, Message: "Product retrieved", Data: product}
	cacheSet(ctx, productCacheKey(id), response)

	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary Create product
// @Description Create a product (multipart: fields + optional images[] + optional file for digital products)
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param price formData number true "Price"
// @Param type formData string true "physical or digital"
// @Param category_id formData int true "Category ID (must be yours)"
// @Param stock formData int false "Stock (physical only)"
// @Param weight formData number false "Weight (physical only)"
// @Param images formData file false "Product images"
// @Param file formData file false "Digital product file"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request: " + err.Error()})
		return
	}
	file, images := formFiles(c)

	product, err := ctrl.products.Create(c.Request.Context(), c.GetInt("user_id"), form, file, images)
	if err != nil {
		respondError(c, err)
		return
	}

	invalidateCache("profile_")

	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Product created successfully", Data: product})
}

// Update godoc
// @Summary Update product
// @Description Owner-only update. Supports deleted_images[] and appended images[].
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (ctrl *ProductController) Update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request: " + err.Error()})
		return
	}
	file, images := formFiles(c)

	product, err := ctrl.products.Update(c.Request.Context(), c.GetInt("user_id"), id, form, file, images)
	if err != nil {
		respondError(c, err)
		return
	}

	invalidateCache(productCacheKey(id), "profile_")

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product updated successfully", Data: product})
}

// Delete godoc
// @Summary Delete product
// @Description Owner-only delete. Stored files are cleaned up best-effort first.
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.products.Delete(c.Request.Context(), c.GetInt("user_id"), id); err != nil {
		respondError(c, err)
		return
	}

	invalidateCache(productCacheKey(id), "profile_")

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product deleted successfully"})
}
