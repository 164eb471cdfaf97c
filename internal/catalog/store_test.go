package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

func product(id, name string, price float64) models.Product {
	return models.Product{ID: models.ID(id), Name: name, Price: price}
}

func seeded(t *testing.T, seq Seq, products ...models.Product) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.ReplaceAll(products, seq))
	return s
}

func TestSequencer_Increases(t *testing.T) {
	var s Sequencer
	a, b, c := s.Next(), s.Next(), s.Next()
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestStore_ReplaceAllKeepsServerOrder(t *testing.T) {
	s := seeded(t, 1, product("3", "c", 3), product("1", "a", 1), product("2", "b", 2))

	want := []models.Product{product("3", "c", 3), product("1", "a", 1), product("2", "b", 2)}
	if diff := cmp.Diff(want, s.Products()); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, s.Len())
}

func TestStore_ReplaceAllDropsDuplicateIDs(t *testing.T) {
	s := seeded(t, 1, product("1", "a", 1), product("1", "dup", 9))

	require.Equal(t, 1, s.Len())
	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestStore_UpsertAppendsNew(t *testing.T) {
	s := seeded(t, 1, product("1", "a", 1))

	require.NoError(t, s.Upsert(product("7", "Pen", 1.5), 2))

	want := []models.Product{product("1", "a", 1), product("7", "Pen", 1.5)}
	if diff := cmp.Diff(want, s.Products()); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_UpsertReplacesInPlace(t *testing.T) {
	s := seeded(t, 1, product("1", "a", 1), product("2", "b", 2), product("3", "c", 3))

	require.NoError(t, s.Upsert(product("2", "X", 9.99), 2))

	want := []models.Product{product("1", "a", 1), product("2", "X", 9.99), product("3", "c", 3)}
	if diff := cmp.Diff(want, s.Products()); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RemoveOnlyMatching(t *testing.T) {
	s := seeded(t, 1, product("1", "a", 1), product("2", "b", 2), product("3", "c", 3))

	s.Remove("2", 2)

	want := []models.Product{product("1", "a", 1), product("3", "c", 3)}
	if diff := cmp.Diff(want, s.Products()); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
	_, ok := s.Get("2")
	assert.False(t, ok)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	s := seeded(t, 1, product("1", "a", 1))

	s.Remove("9", 2)
	assert.Equal(t, 1, s.Len())
}

func TestStore_StaleListing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Store)
		list  []models.Product
		want  []models.Product
	}{
		{
			name: "newer delete survives older listing",
			setup: func(s *Store) {
				s.Remove("2", 5)
			},
			list: []models.Product{product("1", "a", 1), product("2", "b", 2)},
			want: []models.Product{product("1", "a", 1)},
		},
		{
			name: "newer update survives older listing",
			setup: func(s *Store) {
				require.NoError(t, s.Upsert(product("2", "X", 9.99), 5))
			},
			list: []models.Product{product("1", "a", 1), product("2", "b", 2)},
			want: []models.Product{product("1", "a", 1), product("2", "X", 9.99)},
		},
		{
			name: "newer create survives older listing",
			setup: func(s *Store) {
				require.NoError(t, s.Upsert(product("7", "Pen", 1.5), 5))
			},
			list: []models.Product{product("1", "a", 1), product("2", "b", 2)},
			want: []models.Product{product("1", "a", 1), product("2", "b", 2), product("7", "Pen", 1.5)},
		},
		{
			name: "older delete does not hide newer listing",
			setup: func(s *Store) {
				s.Remove("2", 2)
			},
			list: []models.Product{product("1", "a", 1), product("2", "b", 2)},
			want: []models.Product{product("1", "a", 1), product("2", "b", 2)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := seeded(t, 1, product("1", "a", 1), product("2", "b", 2))
			tc.setup(s)

			// listing requested at seq 3
			require.NoError(t, s.ReplaceAll(tc.list, 3))

			if diff := cmp.Diff(tc.want, s.Products()); diff != "" {
				t.Errorf("products mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_OlderListingRejected(t *testing.T) {
	s := seeded(t, 5, product("1", "a", 1))

	err := s.ReplaceAll([]models.Product{product("9", "old", 0)}, 4)

	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, []models.Product{product("1", "a", 1)}, s.Products())
}

func TestStore_OlderWritesRejected(t *testing.T) {
	s := seeded(t, 1, product("1", "a", 1))
	require.NoError(t, s.Upsert(product("1", "new", 2), 6))

	assert.ErrorIs(t, s.Upsert(product("1", "old", 1), 4), ErrStale)

	got, _ := s.Get("1")
	assert.Equal(t, "new", got.Name)

	s.Remove("1", 8)
	assert.ErrorIs(t, s.Upsert(product("1", "late", 3), 7), ErrStale)
	assert.Zero(t, s.Len())
}

func TestStore_RemoveAppliesAfterNewerListing(t *testing.T) {
	// Setup: a listing requested at 4 landed while the deletion was in flight
	s := seeded(t, 4, product("1", "a", 1), product("2", "b", 2))

	// Execute: the deletion is acknowledged at 5
	s.Remove("2", 5)

	// Assert
	assert.Equal(t, []models.Product{product("1", "a", 1)}, s.Products())

	// a listing requested before the acknowledgement still shows the product
	require.NoError(t, s.ReplaceAll([]models.Product{product("1", "a", 1), product("2", "b", 2)}, 4))
	assert.Equal(t, []models.Product{product("1", "a", 1)}, s.Products())
}
