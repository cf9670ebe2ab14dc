package services

import (
	"context"

	"bazaar/models"
)

type CartRepo interface {
	GetByUser(ctx context.Context, userID int) (*models.Cart, error)
	CreateIfAbsent(ctx context.Context, userID, sellerID int) (*models.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID int) error
	GetItem(ctx context.Context, itemID int) (*models.CartItem, *models.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID, quantity int) error
	DeleteItem(ctx context.Context, itemID int) error
	CountItems(ctx context.Context, cartID int) (int, error)
	DeleteCart(ctx context.Context, cartID int) error
	View(ctx context.Context, userID int) (*models.CartView, error)
}

type ProductFinder interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

// CartService owns the cart state transitions: lazy creation pinned to a
// seller, atomic quantity merge, and cascade-on-empty deletion.
type CartService struct {
	carts    CartRepo
	products ProductFinder
}

func NewCartService(carts CartRepo, products ProductFinder) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem resolves the product's seller, lazily creates the buyer's cart
// pinned to that seller, and inserts-or-increments the item. Adding a
// product from a different seller than the existing cart's is rejected
// with ErrSellerMismatch.
func (s *CartService) AddItem(ctx context.Context, buyerID, productID int) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return models.NewValidationError("product", "product is not available")
	}

	cart, err := s.carts.GetByUser(ctx, buyerID)
	if err != nil {
		return err
	}
	if cart == nil {
		// CreateIfAbsent re-reads on conflict, so a concurrent create for a
		// different seller still surfaces as a mismatch below.
		cart, err = s.carts.CreateIfAbsent(ctx, buyerID, product.UserID)
		if err != nil {
			return err
		}
	}
	if cart.SellerID != product.UserID {
		return models.ErrSellerMismatch
	}

	return s.carts.UpsertItem(ctx, cart.ID, productID)
}

// SetQuantity overwrites an item's quantity exactly, no merge.
func (s *CartService) SetQuantity(ctx context.Context, buyerID, itemID, quantity int) error {
	if quantity < 1 {
		return models.NewValidationError("quantity", "quantity must be at least 1")
	}

	_, cart, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := requireOwner(buyerID, cart.UserID); err != nil {
		return err
	}

	return s.carts.UpdateItemQuantity(ctx, itemID, quantity)
}

// RemoveItem deletes the item; when it was the cart's last one the cart
// itself is deleted (cascade-on-empty).
func (s *CartService) RemoveItem(ctx context.Context, buyerID, itemID int) error {
	item, cart, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := requireOwner(buyerID, cart.UserID); err != nil {
		return err
	}

	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return err
	}

	remaining, err := s.carts.CountItems(ctx, cart.ID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return s.carts.DeleteCart(ctx, cart.ID)
	}
	return nil
}

// Clear empties and deletes the buyer's cart. No-op without one.
func (s *CartService) Clear(ctx context.Context, buyerID int) error {
	cart, err := s.carts.GetByUser(ctx, buyerID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.carts.DeleteCart(ctx, cart.ID)
}

// View returns nil without error when the buyer has no cart.
func (s *CartService) View(ctx context.Context, buyerID int) (*models.CartView, error) {
	return s.carts.View(ctx, buyerID)
}
