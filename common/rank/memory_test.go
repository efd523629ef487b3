package rank

import (
	"context"
	"sort"
	"sync"

	"github.com/wishstock/wishlist/common/apperr"
)

// memSiblings is an in-memory Siblings used by the unit tests.
type memSiblings struct {
	mu     sync.Mutex
	scopes map[int64]map[int64]int

	locked    []int64
	shifts    int
	shiftErr  error
	skipShift bool
}

func newMemSiblings() *memSiblings {
	return &memSiblings{scopes: make(map[int64]map[int64]int)}
}

// seed places ids in scope at ranks 0..len(ids)-1.
func (m *memSiblings) seed(scope int64, ids ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make(map[int64]int, len(ids))
	for i, id := range ids {
		members[id] = i
	}
	m.scopes[scope] = members
}

func (m *memSiblings) insert(scope, id int64, rank int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scopes[scope] == nil {
		m.scopes[scope] = make(map[int64]int)
	}
	m.scopes[scope][id] = rank
}

// snapshot copies the id -> rank map of scope.
func (m *memSiblings) snapshot(scope int64) map[int64]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]int, len(m.scopes[scope]))
	for id, r := range m.scopes[scope] {
		out[id] = r
	}
	return out
}

// order returns the ids of scope sorted by rank.
func (m *memSiblings) order(scope int64) []int64 {
	snap := m.snapshot(scope)
	ids := make([]int64, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return snap[ids[i]] < snap[ids[j]] })
	return ids
}

func (m *memSiblings) Lock(_ context.Context, scope int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = append(m.locked, scope)
	return nil
}

func (m *memSiblings) Count(_ context.Context, scope int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scopes[scope]), nil
}

func (m *memSiblings) RankOf(_ context.Context, scope, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.scopes[scope][id]
	if !ok {
		return 0, apperr.NotFound("item", id)
	}
	return r, nil
}

func (m *memSiblings) Shift(_ context.Context, scope int64, lo, hi, delta int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shiftErr != nil {
		return 0, m.shiftErr
	}
	m.shifts++
	if m.skipShift {
		return 0, nil
	}
	var n int64
	for id, r := range m.scopes[scope] {
		if r >= lo && r <= hi {
			m.scopes[scope][id] = r + delta
			n++
		}
	}
	return n, nil
}

func (m *memSiblings) SetRank(_ context.Context, scope, id int64, rank int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scopes[scope][id]; !ok {
		return apperr.NotFound("item", id)
	}
	m.scopes[scope][id] = rank
	return nil
}

func (m *memSiblings) Delete(_ context.Context, scope, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scopes[scope][id]; !ok {
		return apperr.NotFound("item", id)
	}
	delete(m.scopes[scope], id)
	return nil
}

func (m *memSiblings) Ranks(_ context.Context, scope int64) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ranks := make([]int, 0, len(m.scopes[scope]))
	for _, r := range m.scopes[scope] {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks, nil
}
