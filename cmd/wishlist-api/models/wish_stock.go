package models

import (
	"math"
	"time"
)

// WishStock places a stock in a wishlist with the caller's position data
// Maps to: wish_stocks table (joined with stocks for reads)
type WishStock struct {
	ID            int64 `db:"id" json:"id"`
	WishlistID    int64 `db:"wishlist_id" json:"wishlist_id"`
	StockID       int64 `db:"stock_id" json:"stock_id"`
	PurchasePrice int64 `db:"purchase_price" json:"purchase_price"`
	HoldingNum    int64 `db:"holding_num" json:"holding_num"`

	// Dense zero-based position inside the wishlist
	OrderNum int `db:"order_num" json:"order_num"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// From the joined stock row
	StockCode string `db:"code" json:"stock_code"`
	StockName string `db:"name" json:"stock_name"`
	Market    string `db:"market" json:"market"`
	LastPrice int64  `db:"price" json:"last_price"`

	ReturnRate float64 `db:"-" json:"return_rate"`
}

// ComputeReturnRate sets ReturnRate to the percentage gain of LastPrice over
// PurchasePrice, rounded to two decimals.
func (w *WishStock) ComputeReturnRate() {
	w.ReturnRate = ReturnRate(w.PurchasePrice, w.LastPrice)
}

// ReturnRate returns (last - purchase) / purchase * 100 rounded to two
// decimals. A non-positive purchase price yields 0.
func ReturnRate(purchase, last int64) float64 {
	if purchase <= 0 {
		return 0
	}
	rate := float64(last-purchase) / float64(purchase) * 100
	return math.Round(rate*100) / 100
}

// AddWishStockRequest is the body of POST /wishlists/:id/stocks.
// The stock is identified by id, or by exact name when id is zero.
type AddWishStockRequest struct {
	StockID       int64  `json:"stock_id"`
	StockName     string `json:"stock_name"`
	PurchasePrice int64  `json:"purchase_price"`
	HoldingNum    int64  `json:"holding_num"`
}

// WishStockPatch holds the fields a merge patch may change
type WishStockPatch struct {
	PurchasePrice int64 `json:"purchase_price"`
	HoldingNum    int64 `json:"holding_num"`
}
