package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bazaar/config"
	"bazaar/models"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// GetByUser returns (nil, nil) when the buyer has no cart.
func (r *CartRepository) GetByUser(ctx context.Context, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := config.DB.QueryRow(ctx,
		`SELECT id, user_id, seller_id, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID).Scan(&cart.ID, &cart.UserID, &cart.SellerID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateIfAbsent creates the buyer's cart pinned to a seller, or returns the
// existing one. The unique index on carts.user_id makes the concurrent
// create race safe: the loser of the race reads the winner's row.
func (r *CartRepository) CreateIfAbsent(ctx context.Context, userID, sellerID int) (*models.Cart, error) {
	now := time.Now()
	var cart models.Cart
	err := config.DB.QueryRow(ctx, `
		INSERT INTO carts (user_id, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, user_id, seller_id, created_at, updated_at
	`, userID, sellerID, now, now).Scan(&cart.ID, &cart.UserID, &cart.SellerID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem atomically inserts the item with quantity 1 or increments the
// existing row, relying on the (cart_id, product_id) unique constraint.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID, productID int) error {
	now := time.Now()
	_, err := config.DB.Exec(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, 1, $3, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1, updated_at = $3
	`, cartID, productID, now)
	return err
}

// GetItem loads a cart item together with its parent cart for ownership
// checks. Returns ErrNotFound when the item does not exist.
func (r *CartRepository) GetItem(ctx context.Context, itemID int) (*models.CartItem, *models.Cart, error) {
	var item models.CartItem
	var cart models.Cart
	err := config.DB.QueryRow(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       c.id, c.user_id, c.seller_id, c.created_at, c.updated_at
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1
	`, itemID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		&cart.ID, &cart.UserID, &cart.SellerID, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, models.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &item, &cart, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID, quantity int) error {
	_, err := config.DB.Exec(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE id = $3`,
		quantity, time.Now(), itemID)
	return err
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	return err
}

func (r *CartRepository) CountItems(ctx context.Context, cartID int) (int, error) {
	var count int
	err := config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cartID).Scan(&count)
	return count, err
}

// DeleteCart removes the cart; its items go with the FK cascade.
func (r *CartRepository) DeleteCart(ctx context.Context, cartID int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	return err
}

// View builds the checkout projection: seller summary plus items with a
// product snapshot and its main image. Returns (nil, nil) without a cart.
func (r *CartRepository) View(ctx context.Context, userID int) (*models.CartView, error) {
	var view models.CartView
	err := config.DB.QueryRow(ctx, `
		SELECT c.id, c.seller_id, u.name, COALESCE(u.whatsapp, ''), c.created_at, c.updated_at
		FROM carts c
		JOIN users u ON u.id = c.seller_id
		WHERE c.user_id = $1
	`, userID).Scan(&view.ID, &view.SellerID, &view.SellerName, &view.SellerWhatsapp, &view.CreatedAt, &view.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := config.DB.Query(ctx, `
		SELECT ci.id, ci.quantity, p.id, p.title, p.price, COALESCE(img.image_path, ''), u.name
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN users u ON u.id = p.user_id
		LEFT JOIN LATERAL (
			SELECT image_path FROM product_images
			WHERE product_id = p.id
			ORDER BY is_main DESC, "order" ASC, id ASC
			LIMIT 1
		) img ON true
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC
	`, view.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	view.Items = []models.CartViewItem{}
	for rows.Next() {
		var item models.CartViewItem
		if err := rows.Scan(&item.ID, &item.Quantity,
			&item.Product.ID, &item.Product.Title, &item.Product.Price,
			&item.Product.MainImage, &item.Product.SellerName); err != nil {
			return nil, err
		}
		view.Items = append(view.Items, item)
	}
	return &view, rows.Err()
}
