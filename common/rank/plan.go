package rank

import (
	"fmt"
	"sort"

	"github.com/wishstock/wishlist/common/apperr"
)

// Plan is the set of rank mutations for one move or removal: every sibling
// whose rank lies in [Lo, Hi] gets Delta added, then the moved item (if any)
// lands on To.
type Plan struct {
	From  int
	To    int
	Lo    int
	Hi    int
	Delta int
}

// PlanMove computes the shift for moving the item at rank from to rank to in
// a scope of n items.
func PlanMove(from, to, n int) (Plan, error) {
	if to < 0 || to >= n {
		return Plan{}, &apperr.RankError{Desired: to, Count: n}
	}
	if from < 0 || from >= n {
		return Plan{}, fmt.Errorf("current rank %d outside scope of %d: %w", from, n, apperr.ErrRankIntegrity)
	}

	p := Plan{From: from, To: to}
	switch {
	case to > from:
		p.Lo, p.Hi, p.Delta = from+1, to, -1
	case to < from:
		p.Lo, p.Hi, p.Delta = to, from-1, 1
	}
	return p, nil
}

// PlanRemove computes the compaction after deleting the item at rank from
// a scope that held n items.
func PlanRemove(from, n int) Plan {
	p := Plan{From: from, To: -1}
	if from < n-1 {
		p.Lo, p.Hi, p.Delta = from+1, n-1, -1
	}
	return p
}

// NoOp reports whether the plan leaves every sibling untouched.
func (p Plan) NoOp() bool {
	return p.Delta == 0 && p.From == p.To
}

// Shifts reports whether the plan has a sibling range to update.
func (p Plan) Shifts() bool {
	return p.Delta != 0
}

// Apply returns the rank a sibling currently at r holds after the plan.
// For a removal plan the removed rank maps to -1.
func (p Plan) Apply(r int) int {
	if r == p.From {
		return p.To
	}
	if p.Delta != 0 && r >= p.Lo && r <= p.Hi {
		return r + p.Delta
	}
	return r
}

// CheckDense verifies that ranks are exactly {0..len(ranks)-1}.
func CheckDense(ranks []int) error {
	sorted := append([]int(nil), ranks...)
	sort.Ints(sorted)
	for i, r := range sorted {
		if r != i {
			return fmt.Errorf("expected rank %d at position %d, found %d: %w", i, i, r, apperr.ErrRankIntegrity)
		}
	}
	return nil
}
