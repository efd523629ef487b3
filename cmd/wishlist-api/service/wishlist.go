package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/cmd/wishlist-api/repository"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/content"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/rank"
)

const maxWishlistName = 100

// Columns a wishlist listing may be sorted by
var wishlistSorts = map[string]bool{
	"order_num":  true,
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// WishlistService handles wishlist operations. Every write runs in one
// transaction together with the rank changes it causes.
type WishlistService struct {
	db        *db.DB
	reindexer *rank.Reindexer
	log       *logger.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(database *db.DB, reindexer *rank.Reindexer, log *logger.Logger) *WishlistService {
	return &WishlistService{
		db:        database,
		reindexer: reindexer,
		log:       log,
	}
}

// Create appends a new wishlist after the user's existing ones
func (s *WishlistService) Create(ctx context.Context, userID int64, req *models.CreateWishlistRequest) (*models.Wishlist, error) {
	w := &models.Wishlist{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsOpen:      req.IsOpen,
	}
	if err := cleanWishlist(w); err != nil {
		return nil, err
	}

	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		next, err := s.reindexer.Append(ctx, rank.NewPgSiblings(tx, rank.Wishlists), userID)
		if err != nil {
			return err
		}
		w.OrderNum = next
		return repository.NewWishlistRepository(tx).Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("created wishlist",
		"wishlist_id", w.ID,
		"user_id", userID,
		"order_num", w.OrderNum,
	)
	return w, nil
}

// List returns a page of the user's own wishlists
func (s *WishlistService) List(ctx context.Context, userID int64, q models.ListWishlistsQuery) ([]*models.Wishlist, error) {
	q, err := normalizeListQuery(q)
	if err != nil {
		return nil, err
	}
	return repository.NewWishlistRepository(s.db).List(ctx, userID, q)
}

// Get returns a wishlist the user owns or that is open
func (s *WishlistService) Get(ctx context.Context, userID, id int64) (*models.Wishlist, error) {
	return readableWishlist(ctx, s.db, userID, id)
}

// Patch applies a JSON merge patch to name, description and is_open
func (s *WishlistService) Patch(ctx context.Context, userID, id int64, patch []byte) (*models.Wishlist, error) {
	var w *models.Wishlist
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := repository.NewWishlistRepository(tx)

		var err error
		w, err = ownedWishlist(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		current := models.WishlistPatch{Name: w.Name, Description: w.Description, IsOpen: w.IsOpen}
		var next models.WishlistPatch
		if err := applyMergePatch(current, patch, &next); err != nil {
			return err
		}

		w.Name = next.Name
		w.Description = next.Description
		w.IsOpen = next.IsOpen
		if err := cleanWishlist(w); err != nil {
			return err
		}
		return repo.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a wishlist and closes the gap in the owner's ranks.
// Its entries and comments are removed with it.
func (s *WishlistService) Delete(ctx context.Context, userID, id int64) error {
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		w, err := ownedWishlist(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		return s.reindexer.RemoveAndCompact(ctx, rank.NewPgSiblings(tx, rank.Wishlists), w.UserID, id)
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Info("deleted wishlist", "wishlist_id", id, "user_id", userID)
	return nil
}

// Move places a wishlist at hopeOrder among the owner's wishlists
func (s *WishlistService) Move(ctx context.Context, userID, id int64, hopeOrder int) (*models.Wishlist, error) {
	var w *models.Wishlist
	err := s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := repository.NewWishlistRepository(tx)

		current, err := ownedWishlist(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if err := s.reindexer.MoveToRank(ctx, rank.NewPgSiblings(tx, rank.Wishlists), current.UserID, id, hopeOrder); err != nil {
			return err
		}
		if err := repo.Touch(ctx, id); err != nil {
			return err
		}

		w, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("moved wishlist", "wishlist_id", id, "order_num", w.OrderNum)
	return w, nil
}

// cleanWishlist trims name and description and validates them. The text is
// otherwise stored as sent.
func cleanWishlist(w *models.Wishlist) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Description = strings.TrimSpace(w.Description)
	return validateWishlist(w)
}

func validateWishlist(w *models.Wishlist) error {
	if w.Name == "" {
		return apperr.Invalid("name must not be empty")
	}
	if utf8.RuneCountInString(w.Name) > maxWishlistName {
		return apperr.Invalid("name is longer than %d characters", maxWishlistName)
	}
	if utf8.RuneCountInString(w.Description) > content.MaxLength {
		return apperr.Invalid("description is longer than %d characters", content.MaxLength)
	}
	return nil
}

func normalizeListQuery(q models.ListWishlistsQuery) (models.ListWishlistsQuery, error) {
	if q.Sort == "" {
		q.Sort = "order_num"
	}
	if !wishlistSorts[q.Sort] {
		return q, apperr.Invalid("cannot sort by %q", q.Sort)
	}

	q.OrderBy = strings.ToLower(q.OrderBy)
	switch q.OrderBy {
	case "":
		q.OrderBy = "asc"
	case "asc", "desc":
	default:
		return q, apperr.Invalid("order_by must be asc or desc, got %q", q.OrderBy)
	}

	var err error
	q.Limit, q.Offset, err = normalizePage(q.Limit, q.Offset)
	return q, err
}
