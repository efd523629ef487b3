// Package rank keeps a dense zero-based order column consistent inside a
// scope of sibling rows. One Reindexer serves every ranked table; a Table
// names the columns and a Siblings implementation runs the queries.
package rank

// Table describes a ranked table: the column that groups siblings into a
// scope and the column that holds their position.
type Table struct {
	Name        string
	IDColumn    string
	ScopeColumn string
	RankColumn  string
	// LockKey namespaces the per-scope advisory lock so scopes of different
	// tables never contend.
	LockKey int32
}

var (
	// Wishlists are ranked per owning user.
	Wishlists = Table{
		Name:        "wishlists",
		IDColumn:    "id",
		ScopeColumn: "user_id",
		RankColumn:  "order_num",
		LockKey:     7101,
	}

	// WishStocks are ranked per wishlist.
	WishStocks = Table{
		Name:        "wish_stocks",
		IDColumn:    "id",
		ScopeColumn: "wishlist_id",
		RankColumn:  "order_num",
		LockKey:     7102,
	}
)
