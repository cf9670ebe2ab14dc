package services

import (
	"context"
	"log"
	"math"
	"mime/multipart"
	"strings"

	"bazaar/models"
	"bazaar/storage"
)

type ProductRepo interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
	ListByOwner(ctx context.Context, ownerID, limit, offset int) ([]models.Product, int, error)
	ListActiveBySeller(ctx context.Context, sellerID int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product, images []models.ProductImage) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	AddImages(ctx context.Context, productID int, images []models.ProductImage) error
	DeleteImages(ctx context.Context, productID int, imageIDs []int) error
	PromoteMainImage(ctx context.Context, productID int) error
}

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type ProductService struct {
	products   ProductRepo
	categories CategoryRepo
	users      UserFinder
	blobs      storage.BlobStore
	maxUpload  int64
}

func NewProductService(products ProductRepo, categories CategoryRepo, users UserFinder, blobs storage.BlobStore, maxUpload int64) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		users:      users,
		blobs:      blobs,
		maxUpload:  maxUpload,
	}
}

func (s *ProductService) ListOwned(ctx context.Context, ownerID, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := s.products.ListByOwner(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// GetPublic loads a product for its public page. No ownership check.
func (s *ProductService) GetPublic(ctx context.Context, productID int) (*models.Product, error) {
	return s.products.GetByID(ctx, productID)
}

// SellerProfile returns a seller's public summary and active products.
func (s *ProductService) SellerProfile(ctx context.Context, username string) (*models.UserSummary, []models.Product, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.products.ListActiveBySeller(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	summary := user.Summary()
	return &summary, products, nil
}

// validateForm checks the type-conditional field rules and that the
// category belongs to the acting user. hasFile reports whether a digital
// file is available (either uploaded now or already stored).
func (s *ProductService) validateForm(ctx context.Context, ownerID int, form *models.ProductForm, hasFile bool) error {
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return models.NewValidationError("title", "title is required")
	}
	if form.Price < 0 {
		return models.NewValidationError("price", "price must not be negative")
	}

	switch form.Type {
	case models.ProductTypePhysical:
		if form.Stock == nil {
			return models.NewValidationError("stock", "stock is required for physical products")
		}
		if *form.Stock < 0 {
			return models.NewValidationError("stock", "stock must not be negative")
		}
		if form.Weight == nil {
			return models.NewValidationError("weight", "weight is required for physical products")
		}
		if *form.Weight < 0 {
			return models.NewValidationError("weight", "weight must not be negative")
		}
	case models.ProductTypeDigital:
		if !hasFile {
			return models.NewValidationError("file", "a file is required for digital products")
		}
	default:
		return models.NewValidationError("type", "type must be physical or digital")
	}

	category, err := s.categories.GetByID(ctx, form.CategoryID)
	if err != nil {
		if err == models.ErrNotFound {
			return models.NewValidationError("category_id", "category not found")
		}
		return err
	}
	if category.UserID != ownerID {
		return models.NewValidationError("category_id", "category does not belong to you")
	}
	return nil
}

// Create validates, stores the blobs, then inserts product and image rows
// in one transaction. A storage failure aborts; a DB failure triggers a
// best-effort cleanup of the blobs already stored.
func (s *ProductService) Create(ctx context.Context, actorID int, form models.ProductForm, file *multipart.FileHeader, images []*multipart.FileHeader) (*models.Product, error) {
	if err := s.validateForm(ctx, actorID, &form, file != nil); err != nil {
		return nil, err
	}
	if file != nil {
		if err := storage.ValidateDocument(file, s.maxUpload); err != nil {
			return nil, err
		}
	}
	for _, img := range images {
		if err := storage.ValidateImage(img, s.maxUpload); err != nil {
			return nil, err
		}
	}

	var stored []string
	cleanup := func() {
		for _, path := range stored {
			if err := s.blobs.Delete(ctx, path); err != nil {
				log.Printf("orphaned blob after failed create: %v", err)
			}
		}
	}

	filePath := ""
	if form.Type == models.ProductTypeDigital {
		path, err := s.blobs.Put(ctx, file, "products/files")
		if err != nil {
			return nil, err
		}
		stored = append(stored, path)
		filePath = path
	}

	imageRows := make([]models.ProductImage, 0, len(images))
	for i, img := range images {
		path, err := s.blobs.Put(ctx, img, "products/images")
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, path)
		imageRows = append(imageRows, models.ProductImage{
			ImagePath: path,
			Order:     i,
			IsMain:    i == 0,
		})
	}

	product := &models.Product{
		UserID:      actorID,
		CategoryID:  form.CategoryID,
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Type:        form.Type,
		IsActive:    true,
	}
	if form.IsActive != nil {
		product.IsActive = *form.IsActive
	}
	if form.Type == models.ProductTypePhysical {
		product.Stock = form.Stock
		product.Weight = form.Weight
	} else {
		product.FilePath = filePath
	}

	if err := s.products.Create(ctx, product, imageRows); err != nil {
		cleanup()
		return nil, err
	}
	return product, nil
}

// Update applies a partial replace: deleted_images are removed (each must
// belong to the product), new images are appended with order values past
// the current maximum, and a replacement digital file evicts the old blob.
func (s *ProductService) Update(ctx context.Context, actorID, productID int, form models.ProductForm, file *multipart.FileHeader, images []*multipart.FileHeader) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actorID, product.UserID); err != nil {
		return nil, err
	}

	hasFile := file != nil || (form.Type == models.ProductTypeDigital && product.FilePath != "")
	if err := s.validateForm(ctx, actorID, &form, hasFile); err != nil {
		return nil, err
	}
	if file != nil {
		if err := storage.ValidateDocument(file, s.maxUpload); err != nil {
			return nil, err
		}
	}
	for _, img := range images {
		if err := storage.ValidateImage(img, s.maxUpload); err != nil {
			return nil, err
		}
	}

	// Every requested image deletion must reference this product.
	deleted := make([]models.ProductImage, 0, len(form.DeletedImages))
	for _, imageID := range form.DeletedImages {
		found := false
		for _, img := range product.Images {
			if img.ID == imageID {
				deleted = append(deleted, img)
				found = true
				break
			}
		}
		if !found {
			return nil, models.NewValidationError("deleted_images", "image does not belong to this product")
		}
	}

	maxOrder := -1
	for _, img := range product.Images {
		removed := false
		for _, d := range deleted {
			if d.ID == img.ID {
				removed = true
				break
			}
		}
		if !removed && img.Order > maxOrder {
			maxOrder = img.Order
		}
	}

	oldFilePath := product.FilePath

	// Blobs stored in this call that no row references yet; cleaned up
	// best-effort when a later step fails, same as the create path.
	dropBlob := func(path string) {
		if err := s.blobs.Delete(ctx, path); err != nil {
			log.Printf("orphaned blob after failed update: %v", err)
		}
	}

	product.CategoryID = form.CategoryID
	product.Title = form.Title
	product.Description = form.Description
	product.Price = form.Price
	product.Type = form.Type
	if form.IsActive != nil {
		product.IsActive = *form.IsActive
	}
	if form.Type == models.ProductTypePhysical {
		product.Stock = form.Stock
		product.Weight = form.Weight
		product.FilePath = ""
	} else {
		product.Stock = nil
		product.Weight = nil
	}

	newFilePath := ""
	if form.Type == models.ProductTypeDigital && file != nil {
		path, err := s.blobs.Put(ctx, file, "products/files")
		if err != nil {
			return nil, err
		}
		newFilePath = path
		product.FilePath = path
	}

	newImages := make([]models.ProductImage, 0, len(images))
	for i, img := range images {
		path, err := s.blobs.Put(ctx, img, "products/images")
		if err != nil {
			if newFilePath != "" {
				dropBlob(newFilePath)
			}
			for _, prev := range newImages {
				dropBlob(prev.ImagePath)
			}
			return nil, err
		}
		newImages = append(newImages, models.ProductImage{
			ImagePath: path,
			Order:     maxOrder + 1 + i,
		})
	}

	// Until AddImages succeeds no row references the new image blobs; the new
	// file blob stays unreferenced until the row update below commits it.
	dropUncommitted := func(imagesToo bool) {
		if newFilePath != "" {
			dropBlob(newFilePath)
		}
		if imagesToo {
			for _, img := range newImages {
				if img.ID == 0 {
					dropBlob(img.ImagePath)
				}
			}
		}
	}

	deletedIDs := make([]int, len(deleted))
	for i, img := range deleted {
		deletedIDs[i] = img.ID
	}
	if err := s.products.DeleteImages(ctx, productID, deletedIDs); err != nil {
		dropUncommitted(true)
		return nil, err
	}
	if len(newImages) > 0 {
		if err := s.products.AddImages(ctx, productID, newImages); err != nil {
			dropUncommitted(true)
			return nil, err
		}
	}
	if err := s.products.Update(ctx, product); err != nil {
		dropUncommitted(false)
		return nil, err
	}

	// Removed blobs: best-effort, never blocks the row changes.
	for _, img := range deleted {
		if err := s.blobs.Delete(ctx, img.ImagePath); err != nil {
			log.Printf("failed to delete image blob: %v", err)
		}
	}
	if oldFilePath != "" && oldFilePath != product.FilePath {
		if err := s.blobs.Delete(ctx, oldFilePath); err != nil {
			log.Printf("failed to delete file blob: %v", err)
		}
	}

	// Keeps the at-most-one-main invariant when the main image was removed.
	if err := s.products.PromoteMainImage(ctx, productID); err != nil {
		return nil, err
	}

	return s.products.GetByID(ctx, productID)
}

// Delete attempts storage cleanup first (best-effort, logged), then removes
// the row. Image rows go with the FK cascade.
func (s *ProductService) Delete(ctx context.Context, actorID, productID int) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, product.UserID); err != nil {
		return err
	}

	if product.FilePath != "" {
		if err := s.blobs.Delete(ctx, product.FilePath); err != nil {
			log.Printf("failed to delete file blob: %v", err)
		}
	}
	for _, img := range product.Images {
		if err := s.blobs.Delete(ctx, img.ImagePath); err != nil {
			log.Printf("failed to delete image blob: %v", err)
		}
	}

	return s.products.Delete(ctx, productID)
}
