package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"bazaar/config"
)

// OTPRepository keeps short-lived password-reset codes in Redis.
type OTPRepository struct{}

func NewOTPRepository() *OTPRepository {
	return &OTPRepository{}
}

const otpTTL = 10 * time.Minute

func otpKey(email string) string {
	return "pwreset_otp_" + email
}

func (r *OTPRepository) Save(ctx context.Context, email, otp string) error {
	if config.RedisClient == nil {
		return errors.New("cache unavailable, password reset disabled")
	}
	return config.RedisClient.Set(ctx, otpKey(email), otp, otpTTL).Err()
}

// Verify consumes the code on success so it cannot be replayed.
func (r *OTPRepository) Verify(ctx context.Context, email, otp string) (bool, error) {
	if config.RedisClient == nil {
		return false, errors.New("cache unavailable, password reset disabled")
	}

	stored, err := config.RedisClient.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != otp {
		return false, nil
	}

	config.RedisClient.Del(ctx, otpKey(email))
	return true, nil
}
