package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistUsecase_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tu := newTestUsecases(t)
	p := seedProduct(t, tu.db, "Mug", "100", "0", false)

	first, err := tu.wishlist.Add(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := tu.wishlist.Add(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Item.ID, second.Item.ID)

	n, err := tu.wishlist.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := tu.wishlist.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mug", items[0].Product.Name)
}

func TestWishlistUsecase_Remove(t *testing.T) {
	ctx := context.Background()
	tu := newTestUsecases(t)
	p := seedProduct(t, tu.db, "Mug", "100", "0", false)

	_, err := tu.wishlist.Add(ctx, 1, p.ID)
	require.NoError(t, err)

	//他人のリストからは消せない
	err = tu.wishlist.Remove(ctx, 2, p.ID)
	requireHTTPError(t, err, http.StatusNotFound)

	require.NoError(t, tu.wishlist.Remove(ctx, 1, p.ID))

	err = tu.wishlist.Remove(ctx, 1, p.ID)
	requireHTTPError(t, err, http.StatusNotFound)

	n, err := tu.wishlist.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestWishlistUsecase_AddUnknownProduct(t *testing.T) {
	tu := newTestUsecases(t)

	_, err := tu.wishlist.Add(context.Background(), 1, 12345)
	requireHTTPError(t, err, http.StatusNotFound)
}
