package services

import (
	"context"
	"fmt"
	"strings"

	"bazaar/models"
	"bazaar/utils"
)

type CategoryRepo interface {
	ListByOwner(ctx context.Context, ownerID int) ([]models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	NameExists(ctx context.Context, ownerID int, name string, excludeID int) (bool, error)
	SlugExists(ctx context.Context, ownerID int, slug string, excludeID int) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int) error
	CountProducts(ctx context.Context, categoryID int) (int, error)
	ProductIDs(ctx context.Context, categoryID int) ([]int, error)
}

type CategoryService struct {
	categories CategoryRepo
	products   *ProductService
}

func NewCategoryService(categories CategoryRepo, products *ProductService) *CategoryService {
	return &CategoryService{categories: categories, products: products}
}

func (s *CategoryService) List(ctx context.Context, ownerID int) ([]models.Category, error) {
	return s.categories.ListByOwner(ctx, ownerID)
}

func (s *CategoryService) Create(ctx context.Context, ownerID int, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}

	slug := utils.Slugify(name)
	if err := s.checkNameFree(ctx, ownerID, name, slug, 0); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := &models.Category{
		UserID:      ownerID,
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		IsActive:    isActive,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// checkNameFree guards both per-owner unique indexes: distinct names can
// still collapse to the same slug ("Foo Bar" and "Foo:Bar"), which must
// surface as a validation error rather than a constraint violation.
func (s *CategoryService) checkNameFree(ctx context.Context, ownerID int, name, slug string, excludeID int) error {
	taken, err := s.categories.NameExists(ctx, ownerID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidationError("name", "you already have a category with this name")
	}

	taken, err = s.categories.SlugExists(ctx, ownerID, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidationError("name", "you already have a category with an equivalent name")
	}
	return nil
}

func (s *CategoryService) Update(ctx context.Context, actorID, categoryID int, req models.CategoryRequest) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actorID, category.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}

	slug := utils.Slugify(name)
	if err := s.checkNameFree(ctx, actorID, name, slug, categoryID); err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = slug
	category.Description = req.Description
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that still has products unless force
// is set; a forced delete removes the products through the product path so
// their stored files are cleaned up too.
func (s *CategoryService) Delete(ctx context.Context, actorID, categoryID int, force bool) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, category.UserID); err != nil {
		return err
	}

	count, err := s.categories.CountProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		if !force {
			return models.NewValidationError("category",
				fmt.Sprintf("category still has %d product(s); pass force=true to delete them as well", count))
		}
		ids, err := s.categories.ProductIDs(ctx, categoryID)
		if err != nil {
			return err
		}
		for _, productID := range ids {
			if err := s.products.Delete(ctx, actorID, productID); err != nil {
				return err
			}
		}
	}

	return s.categories.Delete(ctx, categoryID)
}
