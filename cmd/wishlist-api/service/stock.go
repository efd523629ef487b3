package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wishstock/wishlist/cmd/wishlist-api/repository"
	"github.com/wishstock/wishlist/common/cache"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/models"
)

// StockService reads the stock catalog. Single stocks are cached; the
// importer evicts entries whose price it changed.
type StockService struct {
	db    *db.DB
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewStockService creates a new stock service. A nil cache disables caching.
func NewStockService(database *db.DB, c cache.Cache, ttl time.Duration, log *logger.Logger) *StockService {
	return &StockService{db: database, cache: c, ttl: ttl, log: log}
}

// Get returns a stock, from the cache when possible
func (s *StockService) Get(ctx context.Context, id int64) (*models.Stock, error) {
	key := cache.StockKey(id)

	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.WithContext(ctx).Warn("stock cache read failed", "stock_id", id, "error", err)
		} else if ok {
			var stock models.Stock
			if err := json.Unmarshal(raw, &stock); err == nil {
				return &stock, nil
			}
		}
	}

	stock, err := repository.NewStockRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stock); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
				s.log.WithContext(ctx).Warn("stock cache write failed", "stock_id", id, "error", err)
			}
		}
	}
	return stock, nil
}

// List returns a page of the catalog ordered by code
func (s *StockService) List(ctx context.Context, limit, offset int) ([]*models.Stock, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	return repository.NewStockRepository(s.db).List(ctx, limit, offset)
}
