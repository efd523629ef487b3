package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/cmd/wishlist-api/repository"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/logger"
	commonmodels "github.com/wishstock/wishlist/common/models"
	"github.com/wishstock/wishlist/common/rank"
)

// WishStockService handles the stocks placed in a wishlist
type WishStockService struct {
	db        *db.DB
	reindexer *rank.Reindexer
	filter    *StockFilter
	log       *logger.Logger
}

// NewWishStockService creates a new wish stock service
func NewWishStockService(database *db.DB, reindexer *rank.Reindexer, filter *StockFilter, log *logger.Logger) *WishStockService {
	return &WishStockService{
		db:        database,
		reindexer: reindexer,
		filter:    filter,
		log:       log,
	}
}

// Add appends a stock to the end of a wishlist the user owns
func (s *WishStockService) Add(ctx context.Context, userID, wishlistID int64, req *models.AddWishStockRequest) (*models.WishStock, error) {
	if err := validatePosition(req.PurchasePrice, req.HoldingNum); err != nil {
		return nil, err
	}
	if req.StockID == 0 && strings.TrimSpace(req.StockName) == "" {
		return nil, apperr.Invalid("stock_id or stock_name is required")
	}

	var created *models.WishStock
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := ownedWishlist(ctx, tx, userID, wishlistID); err != nil {
			return err
		}

		stock, err := resolveStock(ctx, repository.NewStockRepository(tx), req)
		if err != nil {
			return err
		}

		next, err := s.reindexer.Append(ctx, rank.NewPgSiblings(tx, rank.WishStocks), wishlistID)
		if err != nil {
			return err
		}

		repo := repository.NewWishStockRepository(tx)
		ws := &models.WishStock{
			WishlistID:    wishlistID,
			StockID:       stock.ID,
			PurchasePrice: req.PurchasePrice,
			HoldingNum:    req.HoldingNum,
			OrderNum:      next,
		}
		if err := repo.Create(ctx, ws); err != nil {
			return err
		}

		created, err = repo.Get(ctx, wishlistID, ws.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("added stock to wishlist",
		"wishlist_id", wishlistID,
		"stock_id", created.StockID,
		"order_num", created.OrderNum,
	)
	return created, nil
}

// List returns a wishlist's entries by rank. A non-empty filter is a CEL
// expression over the `stock` variable.
func (s *WishStockService) List(ctx context.Context, userID, wishlistID int64, filter string) ([]*models.WishStock, error) {
	if _, err := readableWishlist(ctx, s.db, userID, wishlistID); err != nil {
		return nil, err
	}

	entries, err := repository.NewWishStockRepository(s.db).List(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filter) == "" {
		return entries, nil
	}
	return s.filter.Apply(filter, entries)
}

// Get returns one entry of a readable wishlist
func (s *WishStockService) Get(ctx context.Context, userID, wishlistID, id int64) (*models.WishStock, error) {
	if _, err := readableWishlist(ctx, s.db, userID, wishlistID); err != nil {
		return nil, err
	}
	return repository.NewWishStockRepository(s.db).Get(ctx, wishlistID, id)
}

// Patch applies a JSON merge patch to purchase_price and holding_num
func (s *WishStockService) Patch(ctx context.Context, userID, wishlistID, id int64, patch []byte) (*models.WishStock, error) {
	var ws *models.WishStock
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := ownedWishlist(ctx, tx, userID, wishlistID); err != nil {
			return err
		}

		repo := repository.NewWishStockRepository(tx)
		current, err := repo.Get(ctx, wishlistID, id)
		if err != nil {
			return err
		}

		var next models.WishStockPatch
		if err := applyMergePatch(models.WishStockPatch{
			PurchasePrice: current.PurchasePrice,
			HoldingNum:    current.HoldingNum,
		}, patch, &next); err != nil {
			return err
		}
		if err := validatePosition(next.PurchasePrice, next.HoldingNum); err != nil {
			return err
		}

		current.PurchasePrice = next.PurchasePrice
		current.HoldingNum = next.HoldingNum
		if err := repo.Update(ctx, current); err != nil {
			return err
		}

		ws, err = repo.Get(ctx, wishlistID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// Delete removes an entry and closes the gap in the wishlist's ranks
func (s *WishStockService) Delete(ctx context.Context, userID, wishlistID, id int64) error {
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := ownedWishlist(ctx, tx, userID, wishlistID); err != nil {
			return err
		}
		return s.reindexer.RemoveAndCompact(ctx, rank.NewPgSiblings(tx, rank.WishStocks), wishlistID, id)
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Info("removed stock from wishlist", "wishlist_id", wishlistID, "wish_stock_id", id)
	return nil
}

// Move places an entry at hopeOrder inside its wishlist
func (s *WishStockService) Move(ctx context.Context, userID, wishlistID, id int64, hopeOrder int) (*models.WishStock, error) {
	var ws *models.WishStock
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := ownedWishlist(ctx, tx, userID, wishlistID); err != nil {
			return err
		}
		if err := s.reindexer.MoveToRank(ctx, rank.NewPgSiblings(tx, rank.WishStocks), wishlistID, id, hopeOrder); err != nil {
			return err
		}

		var err error
		ws, err = repository.NewWishStockRepository(tx).Get(ctx, wishlistID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func validatePosition(purchasePrice, holdingNum int64) error {
	if purchasePrice <= 0 {
		return apperr.Invalid("purchase_price must be positive")
	}
	if holdingNum < 0 {
		return apperr.Invalid("holding_num must not be negative")
	}
	return nil
}

func resolveStock(ctx context.Context, stocks *repository.StockRepository, req *models.AddWishStockRequest) (*commonmodels.Stock, error) {
	if req.StockID != 0 {
		return stocks.GetByID(ctx, req.StockID)
	}
	return stocks.GetByName(ctx, strings.TrimSpace(req.StockName))
}

// ownedWishlist loads a wishlist the user must own
func ownedWishlist(ctx context.Context, q db.Querier, userID, wishlistID int64) (*models.Wishlist, error) {
	w, err := repository.NewWishlistRepository(q).GetByID(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(w, userID); err != nil {
		return nil, err
	}
	return w, nil
}

// readableWishlist loads a wishlist the user owns or that is open
func readableWishlist(ctx context.Context, q db.Querier, userID, wishlistID int64) (*models.Wishlist, error) {
	w, err := repository.NewWishlistRepository(q).GetByID(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if err := RequireOpenOrOwner(w, userID); err != nil {
		return nil, err
	}
	return w, nil
}
