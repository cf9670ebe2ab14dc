package models

import "time"

const (
	ProductTypePhysical = "physical"
	ProductTypeDigital  = "digital"
)

type Product struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	CategoryID  int       `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Type        string    `json:"type"`
	FilePath    string    `json:"file_path,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Weight      *float64  `json:"weight,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category      `json:"category,omitempty"`
	Images   []ProductImage `json:"images,omitempty"`
	Seller   *UserSummary   `json:"seller,omitempty"`
}

type ProductImage struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	ImagePath string    `json:"image_path"`
	Order     int       `json:"order"`
	IsMain    bool      `json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
}

// MainImage returns the image flagged is_main, falling back to the image
// with the lowest order when no flag is set.
func (p *Product) MainImage() *ProductImage {
	var lowest *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		if img.IsMain {
			return img
		}
		if lowest == nil || img.Order < lowest.Order {
			lowest = img
		}
	}
	return lowest
}
