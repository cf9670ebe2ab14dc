package models

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Whatsapp string `json:"whatsapp" binding:"omitempty,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=3"`
	Whatsapp string `json:"whatsapp" binding:"omitempty,max=32"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// ProductForm holds the non-file multipart fields of product create/update.
// Files (images[], file) are read from the multipart form directly.
type ProductForm struct {
	Title         string   `form:"title" binding:"required,max=255"`
	Description   string   `form:"description" binding:"required"`
	Price         float64  `form:"price" binding:"min=0"`
	Type          string   `form:"type" binding:"required,oneof=physical digital"`
	CategoryID    int      `form:"category_id" binding:"required"`
	Stock         *int     `form:"stock"`
	Weight        *float64 `form:"weight"`
	IsActive      *bool    `form:"is_active"`
	DeletedImages []int    `form:"deleted_images[]"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
