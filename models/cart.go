package models

import "time"

// Cart is a buyer's single active cart, pinned to one seller for its
// whole lifetime. It is created lazily on the first add and deleted when
// its last item is removed.
type Cart struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	SellerID  int       `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        int       `json:"id"`
	CartID    int       `json:"cart_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartView is the checkout-page projection of a cart.
type CartView struct {
	ID             int            `json:"id"`
	SellerID       int            `json:"seller_id"`
	SellerName     string         `json:"seller_name"`
	SellerWhatsapp string         `json:"seller_whatsapp"`
	Items          []CartViewItem `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CartViewItem struct {
	ID       int                 `json:"id"`
	Quantity int                 `json:"quantity"`
	Product  CartProductSnapshot `json:"product"`
}

type CartProductSnapshot struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	MainImage  string  `json:"main_image,omitempty"`
	SellerName string  `json:"seller_name"`
}
