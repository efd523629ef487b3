package rank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/common/apperr"
)

func TestPlanMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		n        int
		want     Plan
	}{
		{name: "up", from: 2, to: 7, n: 10, want: Plan{From: 2, To: 7, Lo: 3, Hi: 7, Delta: -1}},
		{name: "down", from: 5, to: 2, n: 10, want: Plan{From: 5, To: 2, Lo: 2, Hi: 4, Delta: 1}},
		{name: "same", from: 4, to: 4, n: 10, want: Plan{From: 4, To: 4}},
		{name: "to last", from: 0, to: 9, n: 10, want: Plan{From: 0, To: 9, Lo: 1, Hi: 9, Delta: -1}},
		{name: "to first", from: 9, to: 0, n: 10, want: Plan{From: 9, To: 0, Lo: 0, Hi: 8, Delta: 1}},
		{name: "single", from: 0, to: 0, n: 1, want: Plan{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanMove(tt.from, tt.to, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanMoveOutOfRange(t *testing.T) {
	for _, to := range []int{-1, 10, 11} {
		_, err := PlanMove(3, to, 10)
		require.ErrorIs(t, err, apperr.ErrInvalidRank)

		var rankErr *apperr.RankError
		require.True(t, errors.As(err, &rankErr))
		assert.Equal(t, to, rankErr.Desired)
		assert.Equal(t, 10, rankErr.Count)
	}

	_, err := PlanMove(0, 0, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidRank)
}

func TestPlanMoveCorruptCurrentRank(t *testing.T) {
	_, err := PlanMove(12, 3, 10)
	assert.ErrorIs(t, err, apperr.ErrRankIntegrity)
}

func TestPlanApplyPreservesDensity(t *testing.T) {
	const n = 8
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			p, err := PlanMove(from, to, n)
			require.NoError(t, err)

			ranks := make([]int, n)
			for r := 0; r < n; r++ {
				ranks[r] = p.Apply(r)
			}
			require.NoError(t, CheckDense(ranks), "from %d to %d", from, to)
			assert.Equal(t, to, p.Apply(from))
		}
	}
}

func TestPlanRemove(t *testing.T) {
	p := PlanRemove(3, 10)
	assert.Equal(t, Plan{From: 3, To: -1, Lo: 4, Hi: 9, Delta: -1}, p)
	assert.True(t, p.Shifts())

	last := PlanRemove(9, 10)
	assert.False(t, last.Shifts())

	only := PlanRemove(0, 1)
	assert.False(t, only.Shifts())

	remaining := make([]int, 0, 9)
	for r := 0; r < 10; r++ {
		if r == 3 {
			continue
		}
		remaining = append(remaining, p.Apply(r))
	}
	assert.NoError(t, CheckDense(remaining))
}

func TestCheckDense(t *testing.T) {
	assert.NoError(t, CheckDense(nil))
	assert.NoError(t, CheckDense([]int{2, 0, 1}))
	assert.ErrorIs(t, CheckDense([]int{0, 2}), apperr.ErrRankIntegrity)
	assert.ErrorIs(t, CheckDense([]int{0, 1, 1}), apperr.ErrRankIntegrity)
	assert.ErrorIs(t, CheckDense([]int{1, 2}), apperr.ErrRankIntegrity)
}
