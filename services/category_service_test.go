package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/models"
)

func newCategoryFixture() (*CategoryService, *ProductService, *fakeCategoryRepo, *fakeProductRepo, *fakeBlobStore) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()
	blobs := newFakeBlobStore()
	users := &fakeUserFinder{users: map[string]*models.User{}}
	productSvc := NewProductService(products, categories, users, blobs, testMaxUpload)
	return NewCategoryService(categories, productSvc), productSvc, categories, products, blobs
}

func TestCategoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("slugifies the name", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()

		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Hand Brew Gear"})
		require.NoError(t, err)
		assert.Equal(t, "hand-brew-gear", category.Slug)
		assert.True(t, category.IsActive)
	})

	t.Run("name uniqueness is per owner", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()

		_, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)

		// Another owner can use the same name.
		_, err = svc.Create(ctx, 2, models.CategoryRequest{Name: "Coffee"})
		assert.NoError(t, err)
	})

	t.Run("distinct names with the same slug rejected", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()

		_, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Foo Bar"})
		require.NoError(t, err)

		// "Foo:Bar" also slugifies to foo-bar; surfacing this as validation
		// keeps the unique (user_id, slug) index from firing as a 500.
		_, err = svc.Create(ctx, 1, models.CategoryRequest{Name: "Foo:Bar"})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)

		// A different owner is free to reuse the slug.
		_, err = svc.Create(ctx, 2, models.CategoryRequest{Name: "Foo:Bar"})
		assert.NoError(t, err)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()

		_, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "   "})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner may update", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()
		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, 2, category.ID, models.CategoryRequest{Name: "Tea"})
		assert.ErrorIs(t, err, models.ErrNotOwner)
	})

	t.Run("rename refreshes the slug and keeps self out of the uniqueness check", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()
		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		// Same name again is allowed for the category itself.
		updated, err := svc.Update(ctx, 1, category.ID, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		updated, err = svc.Update(ctx, 1, category.ID, models.CategoryRequest{Name: "Single Origin"})
		require.NoError(t, err)
		assert.Equal(t, "single-origin", updated.Slug)
	})

	t.Run("rename onto a sibling name rejected", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()
		_, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Tea"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, 1, second.ID, models.CategoryRequest{Name: "Coffee"})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rename onto a sibling slug rejected", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()
		_, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Foo Bar"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Tea"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, 1, second.ID, models.CategoryRequest{Name: "Foo:Bar"})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestCategoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("empty category deletes cleanly", func(t *testing.T) {
		svc, _, repo, _, _ := newCategoryFixture()
		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, 1, category.ID, false))
		assert.Nil(t, repo.categories[category.ID])
	})

	t.Run("refuses while products remain", func(t *testing.T) {
		svc, productSvc, repo, _, _ := newCategoryFixture()
		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		product, err := productSvc.Create(ctx, 1, physicalForm(category.ID), nil, nil)
		require.NoError(t, err)
		repo.productIDs[category.ID] = []int{product.ID}

		err = svc.Delete(ctx, 1, category.ID, false)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotNil(t, repo.categories[category.ID])
	})

	t.Run("force deletes products through the product path", func(t *testing.T) {
		svc, productSvc, repo, products, blobs := newCategoryFixture()
		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		product, err := productSvc.Create(ctx, 1, physicalForm(category.ID), nil,
			[]*multipart.FileHeader{imageFile("front.jpg")})
		require.NoError(t, err)
		repo.productIDs[category.ID] = []int{product.ID}

		require.NoError(t, svc.Delete(ctx, 1, category.ID, true))
		assert.Nil(t, repo.categories[category.ID])
		assert.Nil(t, products.products[product.ID])
		assert.Empty(t, blobs.stored)
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		svc, _, _, _, _ := newCategoryFixture()
		category, err := svc.Create(ctx, 1, models.CategoryRequest{Name: "Coffee"})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, 2, category.ID, false), models.ErrNotOwner)
	})
}
