package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"bazaar/models"
	"bazaar/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthUserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailOrUsernameExists(ctx context.Context, email, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int, name, whatsapp string) error
	UpdatePassword(ctx context.Context, id int, hash string) error
}

type OTPStore interface {
	Save(ctx context.Context, email, otp string) error
	Verify(ctx context.Context, email, otp string) (bool, error)
}

type Mailer interface {
	SendPasswordResetOTP(to, otp string) error
}

type AuthService struct {
	users AuthUserRepo
	otps  OTPStore
	mail  Mailer
}

func NewAuthService(users AuthUserRepo, otps OTPStore, mail Mailer) *AuthService {
	return &AuthService{users: users, otps: otps, mail: mail}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	taken, err := s.users.EmailOrUsernameExists(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("email", "email or username already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Whatsapp: req.Whatsapp,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Whatsapp != "" {
		user.Whatsapp = req.Whatsapp
	}
	if err := s.users.UpdateProfile(ctx, userID, user.Name, user.Whatsapp); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := utils.VerifyPassword(user.Password, req.OldPassword)
	if err != nil || !valid {
		return models.NewValidationError("old_password", "old password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// ForgotPassword emails a one-time code. An unknown email is treated as
// success so the endpoint does not leak which addresses exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.mail == nil {
		return errors.New("email service not configured")
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.otps.Save(ctx, user.Email, otp); err != nil {
		return err
	}
	return s.mail.SendPasswordResetOTP(user.Email, otp)
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return models.NewValidationError("otp", "invalid or expired code")
	}

	ok, err := s.otps.Verify(ctx, user.Email, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError("otp", "invalid or expired code")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
