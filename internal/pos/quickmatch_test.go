package pos_test

import (
	"testing"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Galletitas X1 Chocolate", SKU: "G-100", Price: 3.00, Stock: 5},
		{ID: 2, Name: "Galletitas X1 Vainilla", SKU: "G-101", Price: 3.00, Stock: 4},
		{ID: 3, Name: "Galletitas X1 Limon", SKU: "X1", Price: 3.50, Stock: 7},
		{ID: 4, Name: "Pan Lactal", SKU: "P-1", Price: 8.00, Stock: 0},
		{ID: 5, Name: "Galletitas Agua", Price: 2.50, Stock: 2},
		{ID: 6, Name: "Galletitas Salvado", Price: 2.80, Stock: 1},
		{ID: 7, Name: "Galletitas Miel", Price: 3.10, Stock: 9},
		{ID: 8, Name: "Galletitas Arroz", Price: 4.00, Stock: 3},
	}
}

func newResolver(t *testing.T) (*pos.Resolver, *pos.Cart) {
	t.Helper()
	catalog := seedCatalog(matchProducts()...)
	cart := pos.NewCart(catalog)
	return pos.NewResolver(catalog, cart), cart
}

func TestResolverResolve(t *testing.T) {
	t.Run("NoMatch", func(t *testing.T) {
		r, cart := newResolver(t)

		err := r.Resolve("zzz")

		assert.ErrorIs(t, err, domain.ErrNoMatch)
		assert.Zero(t, cart.Len())
		assert.False(t, r.Open())
	})

	t.Run("EmptyInputIsNoMatch", func(t *testing.T) {
		r, cart := newResolver(t)

		err := r.Resolve("   ")

		assert.ErrorIs(t, err, domain.ErrNoMatch)
		assert.Zero(t, cart.Len())
	})

	t.Run("ExactSKUWinsOverNameMatches", func(t *testing.T) {
		// "X1" is a unique SKU and also a substring of three names.
		r, cart := newResolver(t)

		err := r.Resolve("X1")

		require.NoError(t, err)
		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(3), lines[0].ProductID)
		assert.False(t, r.Open())
	})

	t.Run("SKUMatchIsCaseFolded", func(t *testing.T) {
		r, cart := newResolver(t)

		err := r.Resolve("  g-100 ")

		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, int64(1), cart.Lines()[0].ProductID)
	})

	t.Run("SingleNameMatchAddsAndClearsQuery", func(t *testing.T) {
		r, cart := newResolver(t)

		err := r.Resolve("lactal")

		assert.ErrorIs(t, err, domain.ErrOutOfStock)
		assert.Zero(t, cart.Len())

		err = r.Resolve("miel")
		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, int64(7), cart.Lines()[0].ProductID)
		assert.Empty(t, r.Query())
	})

	t.Run("AmbiguousOpensSuggestionsWithoutAdding", func(t *testing.T) {
		r, cart := newResolver(t)

		err := r.Resolve("galletitas")

		require.NoError(t, err)
		assert.Zero(t, cart.Len())
		assert.True(t, r.Open())
		assert.Equal(t, "galletitas", r.Query())

		// At most five, in catalog order, never re-sorted.
		sugg := r.Suggestions()
		require.Len(t, sugg, pos.MaxSuggestions)
		wantIDs := []int64{1, 2, 3, 5, 6}
		for i, p := range sugg {
			assert.Equal(t, wantIDs[i], p.ID)
		}
	})
}

func TestResolverNavigation(t *testing.T) {
	open := func(t *testing.T) (*pos.Resolver, *pos.Cart) {
		t.Helper()
		r, cart := newResolver(t)
		require.NoError(t, r.Resolve("galletitas"))
		require.True(t, r.Open())
		return r, cart
	}

	t.Run("DownWrapsFromLastToFirst", func(t *testing.T) {
		r, _ := open(t)

		for range pos.MaxSuggestions {
			r.MoveDown()
		}

		assert.Equal(t, 0, r.Active())
	})

	t.Run("UpWrapsFromFirstToLast", func(t *testing.T) {
		r, _ := open(t)

		r.MoveUp()

		assert.Equal(t, pos.MaxSuggestions-1, r.Active())
	})

	t.Run("EscapeClosesWithoutAdding", func(t *testing.T) {
		r, cart := open(t)

		r.Close()

		assert.False(t, r.Open())
		assert.Zero(t, cart.Len())
	})

	t.Run("SelectActiveAddsAndCloses", func(t *testing.T) {
		r, cart := open(t)

		r.MoveDown()
		err := r.SelectActive()

		require.NoError(t, err)
		assert.False(t, r.Open())
		assert.Empty(t, r.Query())
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, int64(2), cart.Lines()[0].ProductID)
	})

	t.Run("SelectOutOfRange", func(t *testing.T) {
		r, cart := open(t)

		err := r.Select(99)

		assert.ErrorIs(t, err, domain.ErrNoMatch)
		assert.Zero(t, cart.Len())
	})
}

func TestResolverOutOfStockSelection(t *testing.T) {
	catalog := seedCatalog(
		domain.Product{ID: 1, Name: "Harina 000", Price: 2.00, Stock: 0},
		domain.Product{ID: 2, Name: "Harina 0000", Price: 2.20, Stock: 6},
	)
	cart := pos.NewCart(catalog)
	r := pos.NewResolver(catalog, cart)

	require.NoError(t, r.Resolve("harina"))
	require.True(t, r.Open())

	// Out-of-stock selection reports the error and keeps the list open.
	err := r.Select(0)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.True(t, r.Open())
	assert.Zero(t, cart.Len())

	require.NoError(t, r.Select(1))
	assert.False(t, r.Open())
	assert.Equal(t, 1, cart.Len())
}

func TestResolverSubmit(t *testing.T) {
	t.Run("WithSuggestionsSelectsActive", func(t *testing.T) {
		r, cart := newResolver(t)
		require.NoError(t, r.Resolve("galletitas"))

		err := r.Submit("ignored while list is open")

		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, int64(1), cart.Lines()[0].ProductID)
	})

	t.Run("WithoutSuggestionsResolvesText", func(t *testing.T) {
		r, cart := newResolver(t)

		err := r.Submit("x1")

		require.NoError(t, err)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, int64(3), cart.Lines()[0].ProductID)
	})
}
