package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainImage(t *testing.T) {
	t.Run("flagged image wins regardless of order", func(t *testing.T) {
		product := &Product{Images: []ProductImage{
			{ID: 1, Order: 0},
			{ID: 2, Order: 5, IsMain: true},
			{ID: 3, Order: 1},
		}}
		assert.Equal(t, 2, product.MainImage().ID)
	})

	t.Run("falls back to lowest order when nothing flagged", func(t *testing.T) {
		product := &Product{Images: []ProductImage{
			{ID: 1, Order: 3},
			{ID: 2, Order: 1},
			{ID: 3, Order: 2},
		}}
		assert.Equal(t, 2, product.MainImage().ID)
	})

	t.Run("nil without images", func(t *testing.T) {
		product := &Product{}
		assert.Nil(t, product.MainImage())
	})
}
