package cache

import "fmt"

// StockKey is the cache key of a stock row. The importer evicts it when the
// stock's price changes.
func StockKey(id int64) string {
	return fmt.Sprintf("stock:%d", id)
}
