package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/apperr"
)

func entries() []*models.WishStock {
	list := []*models.WishStock{
		{ID: 1, StockCode: "005930", StockName: "삼성전자", Market: "KOSPI", PurchasePrice: 50000, LastPrice: 56200, HoldingNum: 10, OrderNum: 0},
		{ID: 2, StockCode: "035720", StockName: "카카오", Market: "KOSPI", PurchasePrice: 80000, LastPrice: 60100, HoldingNum: 3, OrderNum: 1},
		{ID: 3, StockCode: "247540", StockName: "에코프로비엠", Market: "KOSDAQ", PurchasePrice: 100000, LastPrice: 120000, HoldingNum: 0, OrderNum: 2},
	}
	for _, ws := range list {
		ws.ComputeReturnRate()
	}
	return list
}

func ids(list []*models.WishStock) []int64 {
	out := make([]int64, 0, len(list))
	for _, ws := range list {
		out = append(out, ws.ID)
	}
	return out
}

func TestStockFilterApply(t *testing.T) {
	f, err := NewStockFilter()
	require.NoError(t, err)

	tests := []struct {
		expr string
		want []int64
	}{
		{`stock.return_rate > 0`, []int64{1, 3}},
		{`stock.return_rate > 10.0 && stock.market == "KOSPI"`, []int64{1}},
		{`stock.market == "KOSDAQ" || stock.holding_num >= 10`, []int64{1, 3}},
		{`stock.name.startsWith("카")`, []int64{2}},
		{`stock.last_price < stock.purchase_price`, []int64{2}},
		{`stock.order_num == 2`, []int64{3}},
		{`false`, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := f.Apply(tt.expr, entries())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStockFilterCachesPrograms(t *testing.T) {
	f, err := NewStockFilter()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.Apply(`stock.holding_num > 0`, entries())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.CacheSize())
}

func TestStockFilterRejectsBadExpressions(t *testing.T) {
	f, err := NewStockFilter()
	require.NoError(t, err)

	for _, expr := range []string{
		`stock.return_rate >`,
		`stock.code + "x"`,
		`stock.missing_field == 1`,
		`stock.code`,
	} {
		_, err := f.Apply(expr, entries())
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, expr)
	}
}
