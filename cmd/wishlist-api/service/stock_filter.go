package service

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/apperr"
)

// maxCachedFilters bounds the program cache; filters come from query strings.
const maxCachedFilters = 256

// StockFilter evaluates CEL filters over wishlist entries, for example
//
//	stock.return_rate > 10.0 && stock.market == "KOSPI"
//
// Compiled programs are cached per expression.
type StockFilter struct {
	env   *cel.Env
	cache map[string]cel.Program
	mu    sync.RWMutex
}

// NewStockFilter creates a filter with the `stock` variable declared
func NewStockFilter() (*StockFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("stock", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &StockFilter{
		env:   env,
		cache: make(map[string]cel.Program),
	}, nil
}

// Apply returns the entries for which expr is true, keeping their order
func (f *StockFilter) Apply(expr string, entries []*models.WishStock) ([]*models.WishStock, error) {
	prg, err := f.program(expr)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.WishStock, 0, len(entries))
	for _, ws := range entries {
		out, _, err := prg.Eval(map[string]any{"stock": activation(ws)})
		if err != nil {
			return nil, apperr.Invalid("filter evaluation error: %v", err)
		}
		ok, isBool := out.Value().(bool)
		if !isBool {
			return nil, apperr.Invalid("filter must return a boolean, got %T", out.Value())
		}
		if ok {
			matched = append(matched, ws)
		}
	}
	return matched, nil
}

// CacheSize returns the number of cached programs
func (f *StockFilter) CacheSize() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

func (f *StockFilter) program(expr string) (cel.Program, error) {
	f.mu.RLock()
	prg, exists := f.cache[expr]
	f.mu.RUnlock()
	if exists {
		return prg, nil
	}

	ast, issues := f.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperr.Invalid("filter compilation error: %v", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, apperr.Invalid("filter must return a boolean, got %s", ast.OutputType())
	}

	prg, err := f.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	f.mu.Lock()
	if len(f.cache) >= maxCachedFilters {
		f.cache = make(map[string]cel.Program)
	}
	f.cache[expr] = prg
	f.mu.Unlock()

	return prg, nil
}

func activation(ws *models.WishStock) map[string]any {
	return map[string]any{
		"code":           ws.StockCode,
		"name":           ws.StockName,
		"market":         ws.Market,
		"last_price":     ws.LastPrice,
		"purchase_price": ws.PurchasePrice,
		"holding_num":    ws.HoldingNum,
		"return_rate":    ws.ReturnRate,
		"order_num":      int64(ws.OrderNum),
	}
}
