package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bazaar/config"
	"bazaar/models"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const productColumns = `p.id, p.user_id, p.category_id, p.title, p.description, p.price, p.type,
	COALESCE(p.file_path, ''), p.stock, p.weight, p.is_active, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, p *models.Product) error {
	return row.Scan(&p.ID, &p.UserID, &p.CategoryID, &p.Title, &p.Description, &p.Price, &p.Type,
		&p.FilePath, &p.Stock, &p.Weight, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID loads a product with its category, ordered images and seller
// summary. Returns ErrNotFound when the id does not exist.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `,
		       c.id, c.user_id, c.name, c.slug, COALESCE(c.description, ''), c.is_active, c.created_at, c.updated_at,
		       u.id, u.name, u.username, COALESCE(u.whatsapp, '')
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	var p models.Product
	var c models.Category
	var s models.UserSummary
	err := config.DB.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.CategoryID, &p.Title, &p.Description, &p.Price, &p.Type,
		&p.FilePath, &p.Stock, &p.Weight, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		&s.ID, &s.Name, &s.Username, &s.Whatsapp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Category = &c
	p.Seller = &s

	images, err := r.imagesForProducts(ctx, []int{p.ID})
	if err != nil {
		return nil, err
	}
	p.Images = images[p.ID]
	return &p, nil
}

// ListByOwner returns the owner's products newest first, with category and
// ordered images, plus the total for pagination.
func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID, limit, offset int) ([]models.Product, int, error) {
	var total int
	if err := config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE user_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + productColumns + `,
		       c.id, c.user_id, c.name, c.slug, COALESCE(c.description, ''), c.is_active, c.created_at, c.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := config.DB.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	ids := []int{}
	for rows.Next() {
		var p models.Product
		var c models.Category
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.CategoryID, &p.Title, &p.Description, &p.Price, &p.Type,
			&p.FilePath, &p.Stock, &p.Weight, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		p.Category = &c
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	images, err := r.imagesForProducts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		products[i].Images = images[products[i].ID]
	}
	return products, total, nil
}

// ListActiveBySeller returns a seller's active products for the public
// profile page, images ordered main-first.
func (r *ProductRepository) ListActiveBySeller(ctx context.Context, sellerID int) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.user_id = $1 AND p.is_active = true
		ORDER BY p.created_at DESC
	`
	rows, err := config.DB.Query(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	ids := []int{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	images, err := r.imagesForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Images = images[products[i].ID]
	}
	return products, nil
}

func (r *ProductRepository) imagesForProducts(ctx context.Context, productIDs []int) (map[int][]models.ProductImage, error) {
	result := map[int][]models.ProductImage{}
	if len(productIDs) == 0 {
		return result, nil
	}

	rows, err := config.DB.Query(ctx, `
		SELECT id, product_id, image_path, "order", is_main, created_at
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY is_main DESC, "order" ASC, id ASC
	`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImagePath, &img.Order, &img.IsMain, &img.CreatedAt); err != nil {
			return nil, err
		}
		result[img.ProductID] = append(result[img.ProductID], img)
	}
	return result, rows.Err()
}

// Create inserts the product and its images in one transaction.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product, images []models.ProductImage) error {
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO products (user_id, category_id, title, description, price, type, file_path, stock, weight, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, product.UserID, product.CategoryID, product.Title, product.Description, product.Price,
		product.Type, product.FilePath, product.Stock, product.Weight, product.IsActive, now, now,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range images {
		images[i].ProductID = product.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO product_images (product_id, image_path, "order", is_main, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, product.ID, images[i].ImagePath, images[i].Order, images[i].IsMain, now).Scan(&images[i].ID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	product.Images = images
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	_, err := config.DB.Exec(ctx, `
		UPDATE products
		SET category_id = $1, title = $2, description = $3, price = $4, type = $5,
		    file_path = NULLIF($6, ''), stock = $7, weight = $8, is_active = $9, updated_at = $10
		WHERE id = $11
	`, product.CategoryID, product.Title, product.Description, product.Price, product.Type,
		product.FilePath, product.Stock, product.Weight, product.IsActive, time.Now(), product.ID)
	return err
}

// Delete removes the row; images and cart items referencing it go with the
// FK cascades.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *ProductRepository) AddImages(ctx context.Context, productID int, images []models.ProductImage) error {
	now := time.Now()
	for i := range images {
		images[i].ProductID = productID
		err := config.DB.QueryRow(ctx, `
			INSERT INTO product_images (product_id, image_path, "order", is_main, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, productID, images[i].ImagePath, images[i].Order, images[i].IsMain, now).Scan(&images[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) DeleteImages(ctx context.Context, productID int, imageIDs []int) error {
	if len(imageIDs) == 0 {
		return nil
	}
	_, err := config.DB.Exec(ctx,
		`DELETE FROM product_images WHERE product_id = $1 AND id = ANY($2)`, productID, imageIDs)
	return err
}

// PromoteMainImage flags the lowest-order image as main when the product
// has none flagged.
func (r *ProductRepository) PromoteMainImage(ctx context.Context, productID int) error {
	_, err := config.DB.Exec(ctx, `
		UPDATE product_images SET is_main = true
		WHERE id = (
			SELECT id FROM product_images
			WHERE product_id = $1
			ORDER BY "order" ASC, id ASC
			LIMIT 1
		)
		AND NOT EXISTS (
			SELECT 1 FROM product_images WHERE product_id = $1 AND is_main
		)
	`, productID)
	return err
}
