package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaar/models"
	"bazaar/services"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// List godoc
// @Summary List own categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categories.List(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Categories retrieved", Data: categories})
}

// Create godoc
// @Summary Create category
// @Description Category names are unique per owner
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CategoryRequest true "Category Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /categories [post]
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request: " + err.Error()})
		return
	}

	category, err := ctrl.categories.Create(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Category created successfully", Data: category})
}

// Update godoc
// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body models.CategoryRequest true "Category Request"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /categories/{id} [put]
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request: " + err.Error()})
		return
	}

	category, err := ctrl.categories.Update(c.Request.Context(), c.GetInt("user_id"), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Category updated successfully", Data: category})
}

// Delete godoc
// @Summary Delete category
// @Description Refuses while products remain unless force=true, which deletes them too
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Param force query bool false "Also delete the category's products"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /categories/{id} [delete]
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	if err := ctrl.categories.Delete(c.Request.Context(), c.GetInt("user_id"), id, force); err != nil {
		respondError(c, err)
		return
	}

	invalidateCache("product_", "profile_")

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Category deleted successfully"})
}
