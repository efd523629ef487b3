package models

import "time"

// Stock is a listed security in the catalog
// Maps to: stocks table
type Stock struct {
	ID     int64  `db:"id" json:"id"`
	Code   string `db:"code" json:"code"`
	Market string `db:"market" json:"market"`
	Name   string `db:"name" json:"name"`

	// Last price in the market's minor unit
	Price int64 `db:"price" json:"price"`

	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
