package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/models"
)

type fakeCartRepo struct {
	nextCartID int
	nextItemID int
	carts      map[int]*models.Cart // keyed by user ID
	items      map[int]*models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		nextCartID: 1,
		nextItemID: 1,
		carts:      map[int]*models.Cart{},
		items:      map[int]*models.CartItem{},
	}
}

func (r *fakeCartRepo) GetByUser(_ context.Context, userID int) (*models.Cart, error) {
	return r.carts[userID], nil
}

func (r *fakeCartRepo) CreateIfAbsent(_ context.Context, userID, sellerID int) (*models.Cart, error) {
	if cart, ok := r.carts[userID]; ok {
		return cart, nil
	}
	cart := &models.Cart{ID: r.nextCartID, UserID: userID, SellerID: sellerID}
	r.nextCartID++
	r.carts[userID] = cart
	return cart, nil
}

func (r *fakeCartRepo) UpsertItem(_ context.Context, cartID, productID int) error {
	for _, item := range r.items {
		if item.CartID == cartID && item.ProductID == productID {
			item.Quantity++
			return nil
		}
	}
	r.items[r.nextItemID] = &models.CartItem{ID: r.nextItemID, CartID: cartID, ProductID: productID, Quantity: 1}
	r.nextItemID++
	return nil
}

func (r *fakeCartRepo) GetItem(_ context.Context, itemID int) (*models.CartItem, *models.Cart, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, nil, models.ErrNotFound
	}
	for _, cart := range r.carts {
		if cart.ID == item.CartID {
			return item, cart, nil
		}
	}
	return nil, nil, models.ErrNotFound
}

func (r *fakeCartRepo) UpdateItemQuantity(_ context.Context, itemID, quantity int) error {
	item, ok := r.items[itemID]
	if !ok {
		return models.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, itemID int) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) CountItems(_ context.Context, cartID int) (int, error) {
	count := 0
	for _, item := range r.items {
		if item.CartID == cartID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCartRepo) DeleteCart(_ context.Context, cartID int) error {
	for userID, cart := range r.carts {
		if cart.ID == cartID {
			delete(r.carts, userID)
		}
	}
	for id, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeCartRepo) View(_ context.Context, userID int) (*models.CartView, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	view := &models.CartView{ID: cart.ID, SellerID: cart.SellerID}
	for _, item := range r.items {
		if item.CartID == cart.ID {
			view.Items = append(view.Items, models.CartViewItem{
				ID:       item.ID,
				Quantity: item.Quantity,
				Product:  models.CartProductSnapshot{ID: item.ProductID},
			})
		}
	}
	return view, nil
}

func (r *fakeCartRepo) itemsOf(cartID int) []*models.CartItem {
	var out []*models.CartItem
	for _, item := range r.items {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	return out
}

type fakeProductFinder struct {
	products map[int]*models.Product
}

func (f *fakeProductFinder) GetByID(_ context.Context, id int) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return product, nil
}

func newCartFixture() (*CartService, *fakeCartRepo) {
	repo := newFakeCartRepo()
	finder := &fakeProductFinder{products: map[int]*models.Product{
		10: {ID: 10, UserID: 100, Title: "Espresso beans", Price: 50000, IsActive: true},
		11: {ID: 11, UserID: 100, Title: "Grinder", Price: 250000, IsActive: true},
		20: {ID: 20, UserID: 200, Title: "Pour-over kit", Price: 180000, IsActive: true},
		30: {ID: 30, UserID: 100, Title: "Retired roast", Price: 40000, IsActive: false},
	}}
	return NewCartService(repo, finder), repo
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("first add creates cart pinned to seller", func(t *testing.T) {
		svc, repo := newCartFixture()

		require.NoError(t, svc.AddItem(ctx, 1, 10))

		cart := repo.carts[1]
		require.NotNil(t, cart)
		assert.Equal(t, 100, cart.SellerID)
		items := repo.itemsOf(cart.ID)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
	})

	t.Run("adding same product twice merges into one row", func(t *testing.T) {
		svc, repo := newCartFixture()

		require.NoError(t, svc.AddItem(ctx, 1, 10))
		require.NoError(t, svc.AddItem(ctx, 1, 10))

		items := repo.itemsOf(repo.carts[1].ID)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("different product from same seller gets its own row", func(t *testing.T) {
		svc, repo := newCartFixture()

		require.NoError(t, svc.AddItem(ctx, 1, 10))
		require.NoError(t, svc.AddItem(ctx, 1, 11))

		assert.Len(t, repo.itemsOf(repo.carts[1].ID), 2)
	})

	t.Run("product from another seller is rejected", func(t *testing.T) {
		svc, repo := newCartFixture()

		require.NoError(t, svc.AddItem(ctx, 1, 10))
		err := svc.AddItem(ctx, 1, 20)

		assert.ErrorIs(t, err, models.ErrSellerMismatch)
		assert.Len(t, repo.itemsOf(repo.carts[1].ID), 1)
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		svc, repo := newCartFixture()

		err := svc.AddItem(ctx, 1, 30)

		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Nil(t, repo.carts[1])
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _ := newCartFixture()
		assert.ErrorIs(t, svc.AddItem(ctx, 1, 999), models.ErrNotFound)
	})

	t.Run("carts are per buyer", func(t *testing.T) {
		svc, repo := newCartFixture()

		require.NoError(t, svc.AddItem(ctx, 1, 10))
		require.NoError(t, svc.AddItem(ctx, 2, 20))

		assert.Equal(t, 100, repo.carts[1].SellerID)
		assert.Equal(t, 200, repo.carts[2].SellerID)
	})
}

func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites the quantity exactly", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		itemID := repo.itemsOf(repo.carts[1].ID)[0].ID

		require.NoError(t, svc.SetQuantity(ctx, 1, itemID, 5))
		assert.Equal(t, 5, repo.items[itemID].Quantity)
	})

	t.Run("rejects zero and negative quantities", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		itemID := repo.itemsOf(repo.carts[1].ID)[0].ID

		for _, quantity := range []int{0, -3} {
			var verr *models.ValidationError
			require.ErrorAs(t, svc.SetQuantity(ctx, 1, itemID, quantity), &verr)
		}
		assert.Equal(t, 1, repo.items[itemID].Quantity)
	})

	t.Run("rejects another buyer's item", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		itemID := repo.itemsOf(repo.carts[1].ID)[0].ID

		assert.ErrorIs(t, svc.SetQuantity(ctx, 2, itemID, 3), models.ErrNotOwner)
		assert.Equal(t, 1, repo.items[itemID].Quantity)
	})

	t.Run("missing item", func(t *testing.T) {
		svc, _ := newCartFixture()
		assert.ErrorIs(t, svc.SetQuantity(ctx, 1, 999, 2), models.ErrNotFound)
	})
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removing the last item deletes the cart", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		itemID := repo.itemsOf(repo.carts[1].ID)[0].ID

		require.NoError(t, svc.RemoveItem(ctx, 1, itemID))

		assert.Nil(t, repo.carts[1])
		view, err := svc.View(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, view)
	})

	t.Run("cart survives while other items remain", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		require.NoError(t, svc.AddItem(ctx, 1, 11))
		cartID := repo.carts[1].ID
		itemID := repo.itemsOf(cartID)[0].ID

		require.NoError(t, svc.RemoveItem(ctx, 1, itemID))

		assert.NotNil(t, repo.carts[1])
		assert.Len(t, repo.itemsOf(cartID), 1)
	})

	t.Run("rejects another buyer's item", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		itemID := repo.itemsOf(repo.carts[1].ID)[0].ID

		assert.ErrorIs(t, svc.RemoveItem(ctx, 2, itemID), models.ErrNotOwner)
		assert.NotNil(t, repo.carts[1])
	})

	t.Run("cart can be re-created for a new seller after cascade", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		itemID := repo.itemsOf(repo.carts[1].ID)[0].ID
		require.NoError(t, svc.RemoveItem(ctx, 1, itemID))

		require.NoError(t, svc.AddItem(ctx, 1, 20))
		assert.Equal(t, 200, repo.carts[1].SellerID)
	})
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes cart and items", func(t *testing.T) {
		svc, repo := newCartFixture()
		require.NoError(t, svc.AddItem(ctx, 1, 10))
		require.NoError(t, svc.AddItem(ctx, 1, 11))

		require.NoError(t, svc.Clear(ctx, 1))

		assert.Nil(t, repo.carts[1])
		assert.Empty(t, repo.items)
	})

	t.Run("no-op without a cart", func(t *testing.T) {
		svc, _ := newCartFixture()
		assert.NoError(t, svc.Clear(ctx, 1))
	})
}
