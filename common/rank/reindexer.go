package rank

import (
	"context"
	"fmt"

	"github.com/wishstock/wishlist/common/logger"
)

// Reindexer applies append, move and remove to a scope while keeping its
// ranks dense. It holds no state of its own: atomicity comes from the
// transaction the Siblings are bound to, and it never retries.
type Reindexer struct {
	log    *logger.Logger
	verify bool
}

// NewReindexer creates a reindexer. With verify set, every mutation re-reads
// the scope and fails with apperr.ErrRankIntegrity if ranks are not dense.
func NewReindexer(log *logger.Logger, verify bool) *Reindexer {
	return &Reindexer{log: log, verify: verify}
}

// Append locks scope and returns the rank a new member must be inserted with.
// The caller inserts the row in the same transaction.
func (r *Reindexer) Append(ctx context.Context, s Siblings, scope int64) (int, error) {
	if err := s.Lock(ctx, scope); err != nil {
		return 0, err
	}
	n, err := s.Count(ctx, scope)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// MoveToRank moves target to desired, shifting the siblings in between by
// one. Moving to the current rank changes nothing.
func (r *Reindexer) MoveToRank(ctx context.Context, s Siblings, scope, target int64, desired int) error {
	if err := s.Lock(ctx, scope); err != nil {
		return err
	}

	from, err := s.RankOf(ctx, scope, target)
	if err != nil {
		return err
	}
	n, err := s.Count(ctx, scope)
	if err != nil {
		return err
	}

	plan, err := PlanMove(from, desired, n)
	if err != nil {
		return err
	}
	if plan.NoOp() {
		return nil
	}

	shifted, err := s.Shift(ctx, scope, plan.Lo, plan.Hi, plan.Delta)
	if err != nil {
		return err
	}
	if err := s.SetRank(ctx, scope, target, desired); err != nil {
		return err
	}

	r.log.WithContext(ctx).Debug("rank moved",
		"scope", scope,
		"target", target,
		"from", from,
		"to", desired,
		"shifted", shifted,
	)

	return r.check(ctx, s, scope)
}

// RemoveAndCompact deletes target and closes the gap it leaves.
func (r *Reindexer) RemoveAndCompact(ctx context.Context, s Siblings, scope, target int64) error {
	if err := s.Lock(ctx, scope); err != nil {
		return err
	}

	from, err := s.RankOf(ctx, scope, target)
	if err != nil {
		return err
	}
	n, err := s.Count(ctx, scope)
	if err != nil {
		return err
	}

	if err := s.Delete(ctx, scope, target); err != nil {
		return err
	}

	plan := PlanRemove(from, n)
	var shifted int64
	if plan.Shifts() {
		shifted, err = s.Shift(ctx, scope, plan.Lo, plan.Hi, plan.Delta)
		if err != nil {
			return err
		}
	}

	r.log.WithContext(ctx).Debug("rank removed",
		"scope", scope,
		"target", target,
		"from", from,
		"shifted", shifted,
	)

	return r.check(ctx, s, scope)
}

// Verify reads the scope and checks that its ranks are dense.
func (r *Reindexer) Verify(ctx context.Context, s Siblings, scope int64) error {
	ranks, err := s.Ranks(ctx, scope)
	if err != nil {
		return err
	}
	if err := CheckDense(ranks); err != nil {
		return fmt.Errorf("scope %d: %w", scope, err)
	}
	return nil
}

func (r *Reindexer) check(ctx context.Context, s Siblings, scope int64) error {
	if !r.verify {
		return nil
	}
	if err := r.Verify(ctx, s, scope); err != nil {
		r.log.WithContext(ctx).Error("rank density violated", "scope", scope, "error", err)
		return err
	}
	return nil
}
