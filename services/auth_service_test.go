package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/config"
	"bazaar/models"
	"bazaar/utils"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: "1h",
	}
	os.Exit(m.Run())
}

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) EmailOrUsernameExists(_ context.Context, email, username string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int, name, whatsapp string) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.Name = name
	user.Whatsapp = whatsapp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int, hash string) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.Password = hash
	return nil
}

type fakeOTPStore struct {
	codes map[string]string
}

func (s *fakeOTPStore) Save(_ context.Context, email, otp string) error {
	s.codes[email] = otp
	return nil
}

func (s *fakeOTPStore) Verify(_ context.Context, email, otp string) (bool, error) {
	stored, ok := s.codes[email]
	if !ok || stored != otp {
		return false, nil
	}
	delete(s.codes, email)
	return true, nil
}

type fakeMailer struct {
	sent []string // "email:otp"
}

func (m *fakeMailer) SendPasswordResetOTP(to, otp string) error {
	m.sent = append(m.sent, to+":"+otp)
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeOTPStore, *fakeMailer) {
	users := newFakeUserRepo()
	otps := &fakeOTPStore{codes: map[string]string{}}
	mail := &fakeMailer{}
	return NewAuthService(users, otps, mail), users, otps, mail
}

func registerReq() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     "Ana Seller",
		Username: "anaseller",
		Email:    "ana@example.com",
		Password: "hunter22",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and issues a token", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()

		resp, err := svc.Register(ctx, registerReq())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)

		stored := users.users[resp.User.ID]
		assert.NotEqual(t, "hunter22", stored.Password)
		ok, err := utils.VerifyPassword(stored.Password, "hunter22")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("duplicate email or username rejected", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, err := svc.Register(ctx, registerReq())
		require.NoError(t, err)

		dup := registerReq()
		dup.Username = "othername"
		_, err = svc.Register(ctx, dup)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)

		dup = registerReq()
		dup.Email = "other@example.com"
		_, err = svc.Register(ctx, dup)
		require.ErrorAs(t, err, &verr)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthFixture()
	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)

		claims, err := utils.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Email: "ghost@example.com", Password: "hunter22"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthFixture()
	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	userID := resp.User.ID

	t.Run("wrong old password rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, userID, models.ChangePasswordRequest{
			OldPassword: "nope", NewPassword: "newpass77",
		})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "old_password", verr.Field)
	})

	t.Run("new password takes effect", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, userID, models.ChangePasswordRequest{
			OldPassword: "hunter22", NewPassword: "newpass77",
		}))

		_, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "newpass77"})
		assert.NoError(t, err)
		_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("full reset round trip", func(t *testing.T) {
		svc, _, otps, mail := newAuthFixture()
		_, err := svc.Register(ctx, registerReq())
		require.NoError(t, err)

		require.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))
		require.Len(t, mail.sent, 1)
		otp := otps.codes["ana@example.com"]
		require.Len(t, otp, 6)

		require.NoError(t, svc.ResetPassword(ctx, models.ResetPasswordRequest{
			Email: "ana@example.com", OTP: otp, NewPassword: "fresh123",
		}))
		_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "fresh123"})
		assert.NoError(t, err)
	})

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		svc, _, _, mail := newAuthFixture()
		assert.NoError(t, svc.ForgotPassword(ctx, "ghost@example.com"))
		assert.Empty(t, mail.sent)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, err := svc.Register(ctx, registerReq())
		require.NoError(t, err)
		require.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))

		err = svc.ResetPassword(ctx, models.ResetPasswordRequest{
			Email: "ana@example.com", OTP: "000000", NewPassword: "fresh123",
		})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("code is single use", func(t *testing.T) {
		svc, _, otps, _ := newAuthFixture()
		_, err := svc.Register(ctx, registerReq())
		require.NoError(t, err)
		require.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))
		otp := otps.codes["ana@example.com"]

		require.NoError(t, svc.ResetPassword(ctx, models.ResetPasswordRequest{
			Email: "ana@example.com", OTP: otp, NewPassword: "fresh123",
		}))
		err = svc.ResetPassword(ctx, models.ResetPasswordRequest{
			Email: "ana@example.com", OTP: otp, NewPassword: "again456",
		})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newAuthFixture()
	resp, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, resp.User.ID, models.UpdateProfileRequest{
		Name: "Ana Roaster", Whatsapp: "+628123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Roaster", updated.Name)
	assert.Equal(t, "Ana Roaster", users.users[resp.User.ID].Name)
	assert.Equal(t, "+628123", users.users[resp.User.ID].Whatsapp)

	// Blank fields keep the current values.
	updated, err = svc.UpdateProfile(ctx, resp.User.ID, models.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Ana Roaster", updated.Name)
}

func TestWrongCodeAfterReset(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthFixture()

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{
		Email: "ghost@example.com", OTP: "123456", NewPassword: "x234567",
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}
