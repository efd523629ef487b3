//go:build integration

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/cmd/wishlist-api/service"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/content"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/dbtest"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/rank"
	"github.com/wishstock/wishlist/common/revision"
)

type fixture struct {
	db         *db.DB
	wishlists  *service.WishlistService
	wishStocks *service.WishStockService
	comments   *service.CommentService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	d := dbtest.StartPostgres(t)
	log := logger.Discard()
	reindexer := rank.NewReindexer(log, true)
	renderer := content.NewRenderer()
	filter, err := service.NewStockFilter()
	require.NoError(t, err)

	return &fixture{
		db:         d,
		wishlists:  service.NewWishlistService(d, reindexer, log),
		wishStocks: service.NewWishStockService(d, reindexer, filter, log),
		comments:   service.NewCommentService(d, revision.NewLog(log), renderer, log),
	}
}

func TestWishlistLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := dbtest.SeedUser(t, f.db, "alice")
	bob := dbtest.SeedUser(t, f.db, "bob")

	var ids []int64
	for i, name := range []string{"a", "b", "c", "d"} {
		w, err := f.wishlists.Create(ctx, alice, &models.CreateWishlistRequest{Name: name})
		require.NoError(t, err)
		assert.Equal(t, i, w.OrderNum)
		ids = append(ids, w.ID)
	}

	_, err := f.wishlists.Create(ctx, alice, &models.CreateWishlistRequest{Name: "a"})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	// Moving d to the front shifts a, b and c down by one.
	w, err := f.wishlists.Move(ctx, alice, ids[3], 0)
	require.NoError(t, err)
	assert.Equal(t, 0, w.OrderNum)
	assert.Equal(t, map[int64]int{ids[3]: 0, ids[0]: 1, ids[1]: 2, ids[2]: 3}, dbtest.Ranks(t, f.db, alice))

	_, err = f.wishlists.Move(ctx, alice, ids[0], 4)
	assert.ErrorIs(t, err, apperr.ErrInvalidRank)

	_, err = f.wishlists.Move(ctx, bob, ids[0], 0)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	require.NoError(t, f.wishlists.Delete(ctx, alice, ids[0]))
	assert.Equal(t, map[int64]int{ids[3]: 0, ids[1]: 1, ids[2]: 2}, dbtest.Ranks(t, f.db, alice))

	_, err = f.wishlists.Get(ctx, bob, ids[1])
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	patched, err := f.wishlists.Patch(ctx, alice, ids[1], []byte(`{"is_open": true, "name": "a<b", "description": "AT&amp;T"}`))
	require.NoError(t, err)
	assert.True(t, patched.IsOpen)
	assert.Equal(t, "a<b", patched.Name)
	assert.Equal(t, "AT&amp;T", patched.Description)
	assert.Equal(t, 1, patched.OrderNum)

	stored, err := f.wishlists.Get(ctx, bob, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "a<b", stored.Name)
	assert.Equal(t, "AT&amp;T", stored.Description)

	sorted, err := f.wishlists.List(ctx, alice, models.ListWishlistsQuery{Sort: "name", OrderBy: "desc"})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "d", sorted[0].Name)
	assert.Equal(t, "a<b", sorted[2].Name)
}

func TestWishStocks(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := dbtest.SeedUser(t, f.db, "alice")
	samsung := dbtest.SeedStock(t, f.db, "005930", "삼성전자", 56200)
	dbtest.SeedStock(t, f.db, "035720", "카카오", 60100)

	w, err := f.wishlists.Create(ctx, alice, &models.CreateWishlistRequest{Name: "kr"})
	require.NoError(t, err)

	first, err := f.wishStocks.Add(ctx, alice, w.ID, &models.AddWishStockRequest{StockID: samsung, PurchasePrice: 50000, HoldingNum: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, first.OrderNum)
	assert.Equal(t, 12.4, first.ReturnRate)

	second, err := f.wishStocks.Add(ctx, alice, w.ID, &models.AddWishStockRequest{StockName: "카카오", PurchasePrice: 70000})
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrderNum)
	assert.Equal(t, -14.14, second.ReturnRate)

	_, err = f.wishStocks.Add(ctx, alice, w.ID, &models.AddWishStockRequest{StockID: samsung, PurchasePrice: 1})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	_, err = f.wishStocks.Add(ctx, alice, w.ID, &models.AddWishStockRequest{StockName: "없는종목", PurchasePrice: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	gainers, err := f.wishStocks.List(ctx, alice, w.ID, `stock.return_rate > 0`)
	require.NoError(t, err)
	require.Len(t, gainers, 1)
	assert.Equal(t, first.ID, gainers[0].ID)

	moved, err := f.wishStocks.Move(ctx, alice, w.ID, second.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.OrderNum)

	patched, err := f.wishStocks.Patch(ctx, alice, w.ID, first.ID, []byte(`{"holding_num": 10}`))
	require.NoError(t, err)
	assert.Equal(t, int64(10), patched.HoldingNum)
	assert.Equal(t, int64(50000), patched.PurchasePrice)
	assert.Equal(t, 1, patched.OrderNum)

	_, err = f.wishStocks.Patch(ctx, alice, w.ID, first.ID, []byte(`{"purchase_price": 0}`))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	require.NoError(t, f.wishStocks.Delete(ctx, alice, w.ID, second.ID))
	left, err := f.wishStocks.List(ctx, alice, w.ID, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, 0, left[0].OrderNum)
}

func TestCommentsKeepHistory(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := dbtest.SeedUser(t, f.db, "alice")
	bob := dbtest.SeedUser(t, f.db, "bob")

	w, err := f.wishlists.Create(ctx, alice, &models.CreateWishlistRequest{Name: "shared", IsOpen: true})
	require.NoError(t, err)

	c, err := f.comments.Create(ctx, bob, w.ID, &models.CommentRequest{Content: "nice **picks**"})
	require.NoError(t, err)
	require.Len(t, c.History, 1)
	assert.Contains(t, c.ContentHTML, "<strong>picks</strong>")

	_, err = f.comments.Update(ctx, alice, w.ID, c.ID, &models.CommentRequest{Content: "hijack"})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	for _, body := range []string{"nice picks", "great picks"} {
		_, err := f.comments.Update(ctx, bob, w.ID, c.ID, &models.CommentRequest{Content: body})
		require.NoError(t, err)
	}

	history, err := f.comments.History(ctx, alice, w.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "great picks", history[0].Content)
	assert.Equal(t, "nice **picks**", history[2].Content)
	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))

	reply, err := f.comments.Reply(ctx, alice, w.ID, c.ID, &models.CommentRequest{Content: "thanks"})
	require.NoError(t, err)
	assert.True(t, reply.IsReply)

	_, err = f.comments.Reply(ctx, bob, w.ID, reply.ID, &models.CommentRequest{Content: "nested"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	thread, err := f.comments.Replies(ctx, alice, w.ID, c.ID)
	require.NoError(t, err)
	assert.Len(t, thread.Comment.History, 3)
	require.Len(t, thread.Replies, 1)

	all, err := f.comments.List(ctx, alice, w.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, c.ID, all[0].ID)
	assert.Len(t, all[0].History, 3)
	assert.Equal(t, reply.ID, all[1].ID)
	assert.Len(t, all[1].History, 1)

	require.NoError(t, f.comments.Delete(ctx, bob, w.ID, c.ID))
	_, err = f.comments.History(ctx, alice, w.ID, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var revisions int
	require.NoError(t, f.db.QueryRow(ctx, `SELECT COUNT(*) FROM comment_revisions WHERE comment_id = $1`, c.ID).Scan(&revisions))
	assert.Zero(t, revisions)

	// The reply outlives its parent and is still listed.
	_, err = f.comments.Get(ctx, alice, w.ID, reply.ID)
	assert.NoError(t, err)

	all, err = f.comments.List(ctx, alice, w.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, reply.ID, all[0].ID)
	require.NotNil(t, all[0].ParentID)
	assert.Equal(t, c.ID, *all[0].ParentID)
	assert.Len(t, all[0].History, 1)
}
