package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazaar/config"
	"bazaar/models"
	"bazaar/services"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	var serr *models.StorageError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: verr.Message, Field: verr.Field})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Success: false, Message: err.Error()})
	case errors.Is(err, models.ErrNotOwner):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Success: false, Message: "You do not have access to this resource"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Resource not found"})
	case errors.Is(err, models.ErrSellerMismatch):
		c.JSON(http.StatusConflict, models.ErrorResponse{Success: false, Message: "Your cart holds items from another seller. Empty it before adding this product"})
	case errors.As(err, &serr):
		log.Printf("storage error: %v", serr)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Message: "File storage failed"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Message: "Internal server error"})
	}
}

const cacheTTL = 5 * time.Minute

func cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if config.RedisClient == nil {
		return nil, false
	}
	cached, err := config.RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	return []byte(cached), true
}

func cacheSet(ctx context.Context, key string, payload interface{}) {
	if config.RedisClient == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	config.RedisClient.Set(ctx, key, string(data), cacheTTL)
}

// invalidateCache drops every key matching the given prefixes.
func invalidateCache(prefixes ...string) {
	if config.RedisClient == nil {
		return
	}
	ctx := context.Background()
	for _, prefix := range prefixes {
		iter := config.RedisClient.Scan(ctx, 0, prefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			config.RedisClient.Del(ctx, iter.Val())
		}
	}
}
