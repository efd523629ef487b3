package rank

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/logger"
)

const scope int64 = 1

// tenItems seeds ids 100..109 at ranks 0..9.
func tenItems() *memSiblings {
	m := newMemSiblings()
	ids := make([]int64, 10)
	for i := range ids {
		ids[i] = int64(100 + i)
	}
	m.seed(scope, ids...)
	return m
}

func newTestReindexer(verify bool) *Reindexer {
	return NewReindexer(logger.Discard(), verify)
}

func assertDense(t *testing.T, m *memSiblings, s int64) {
	t.Helper()
	ranks, err := m.Ranks(context.Background(), s)
	require.NoError(t, err)
	require.NoError(t, CheckDense(ranks))
}

func TestMoveToRankUp(t *testing.T) {
	m := tenItems()
	r := newTestReindexer(true)

	require.NoError(t, r.MoveToRank(context.Background(), m, scope, 102, 7))

	got := m.snapshot(scope)
	assert.Equal(t, 7, got[102])
	for old := 3; old <= 7; old++ {
		assert.Equal(t, old-1, got[int64(100+old)], "item at rank %d", old)
	}
	for _, old := range []int{0, 1, 8, 9} {
		assert.Equal(t, old, got[int64(100+old)], "item at rank %d", old)
	}
	assertDense(t, m, scope)
	assert.Equal(t, 1, m.shifts)
}

func TestMoveToRankDown(t *testing.T) {
	m := tenItems()
	r := newTestReindexer(true)

	require.NoError(t, r.MoveToRank(context.Background(), m, scope, 105, 2))

	got := m.snapshot(scope)
	assert.Equal(t, 2, got[105])
	for old := 2; old <= 4; old++ {
		assert.Equal(t, old+1, got[int64(100+old)], "item at rank %d", old)
	}
	for _, old := range []int{0, 1, 6, 7, 8, 9} {
		assert.Equal(t, old, got[int64(100+old)], "item at rank %d", old)
	}
	assertDense(t, m, scope)
}

func TestRemoveAndCompact(t *testing.T) {
	m := tenItems()
	r := newTestReindexer(true)

	require.NoError(t, r.RemoveAndCompact(context.Background(), m, scope, 103))

	got := m.snapshot(scope)
	assert.Len(t, got, 9)
	assert.NotContains(t, got, int64(103))
	for old := 4; old <= 9; old++ {
		assert.Equal(t, old-1, got[int64(100+old)], "item at rank %d", old)
	}
	for old := 0; old <= 2; old++ {
		assert.Equal(t, old, got[int64(100+old)])
	}
	assertDense(t, m, scope)
}

func TestRemoveLastSkipsShift(t *testing.T) {
	m := tenItems()
	r := newTestReindexer(true)

	require.NoError(t, r.RemoveAndCompact(context.Background(), m, scope, 109))
	assert.Equal(t, 0, m.shifts)
	assertDense(t, m, scope)

	single := newMemSiblings()
	single.seed(scope, 1)
	require.NoError(t, r.RemoveAndCompact(context.Background(), single, scope, 1))
	assert.Empty(t, single.snapshot(scope))
}

func TestMoveToSameRankIsNoOp(t *testing.T) {
	m := tenItems()
	r := newTestReindexer(true)
	before := m.snapshot(scope)

	require.NoError(t, r.MoveToRank(context.Background(), m, scope, 104, 4))

	assert.Equal(t, before, m.snapshot(scope))
	assert.Equal(t, 0, m.shifts)
}

func TestAppendThenRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newMemSiblings()
	m.seed(scope, 10, 11, 12, 13, 14)
	r := newTestReindexer(true)
	original := m.order(scope)

	rank, err := r.Append(ctx, m, scope)
	require.NoError(t, err)
	assert.Equal(t, 5, rank)
	m.insert(scope, 99, rank)

	require.NoError(t, r.MoveToRank(ctx, m, scope, 99, 0))
	assert.Equal(t, int64(99), m.order(scope)[0])

	require.NoError(t, r.MoveToRank(ctx, m, scope, 99, 5))
	assert.Equal(t, append(original, 99), m.order(scope))
	assertDense(t, m, scope)
}

func TestAppendLocksBeforeCounting(t *testing.T) {
	m := newMemSiblings()
	r := newTestReindexer(false)

	rank, err := r.Append(context.Background(), m, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, rank)
	assert.Equal(t, []int64{42}, m.locked)
}

func TestMoveToRankBoundary(t *testing.T) {
	for _, desired := range []int{-1, 10} {
		m := tenItems()
		r := newTestReindexer(true)
		before := m.snapshot(scope)

		err := r.MoveToRank(context.Background(), m, scope, 103, desired)
		require.ErrorIs(t, err, apperr.ErrInvalidRank)

		var rankErr *apperr.RankError
		require.True(t, errors.As(err, &rankErr))
		assert.Equal(t, desired, rankErr.Desired)
		assert.Equal(t, 10, rankErr.Count)

		assert.Equal(t, before, m.snapshot(scope))
		assert.Equal(t, 0, m.shifts)
	}
}

func TestMoveToRankTargetOutsideScope(t *testing.T) {
	m := tenItems()
	m.seed(2, 500, 501)
	r := newTestReindexer(true)
	other := m.snapshot(2)

	err := r.MoveToRank(context.Background(), m, scope, 500, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = r.RemoveAndCompact(context.Background(), m, scope, 777)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, other, m.snapshot(2))
	assert.Len(t, m.snapshot(scope), 10)
}

func TestShiftFailurePropagates(t *testing.T) {
	m := tenItems()
	boom := errors.New("constraint violated")
	m.shiftErr = boom
	r := newTestReindexer(true)

	err := r.MoveToRank(context.Background(), m, scope, 100, 9)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.snapshot(scope)[100])
}

func TestVerifyCatchesBrokenShift(t *testing.T) {
	m := tenItems()
	m.skipShift = true

	err := newTestReindexer(true).MoveToRank(context.Background(), m, scope, 100, 9)
	assert.ErrorIs(t, err, apperr.ErrRankIntegrity)

	m = tenItems()
	m.skipShift = true
	assert.NoError(t, newTestReindexer(false).MoveToRank(context.Background(), m, scope, 100, 9))
}

func TestRandomOperationsStayDense(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	m := newMemSiblings()
	r := newTestReindexer(true)
	nextID := int64(1)

	for i := 0; i < 500; i++ {
		ids := m.order(scope)
		switch op := rng.Intn(3); {
		case op == 0 || len(ids) == 0:
			rank, err := r.Append(ctx, m, scope)
			require.NoError(t, err)
			m.insert(scope, nextID, rank)
			nextID++
		case op == 1:
			target := ids[rng.Intn(len(ids))]
			desired := rng.Intn(len(ids))
			before := m.snapshot(scope)
			plan, err := PlanMove(before[target], desired, len(ids))
			require.NoError(t, err)

			require.NoError(t, r.MoveToRank(ctx, m, scope, target, desired))

			after := m.snapshot(scope)
			for id, old := range before {
				assert.Equal(t, plan.Apply(old), after[id])
			}
		default:
			target := ids[rng.Intn(len(ids))]
			require.NoError(t, r.RemoveAndCompact(ctx, m, scope, target))
		}
		assertDense(t, m, scope)
	}
}
