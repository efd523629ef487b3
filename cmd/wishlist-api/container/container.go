package container

import (
	"fmt"

	"github.com/wishstock/wishlist/cmd/wishlist-api/repository"
	"github.com/wishstock/wishlist/cmd/wishlist-api/service"
	"github.com/wishstock/wishlist/common/bootstrap"
	"github.com/wishstock/wishlist/common/content"
	"github.com/wishstock/wishlist/common/rank"
	"github.com/wishstock/wishlist/common/ratelimit"
	"github.com/wishstock/wishlist/common/revision"
)

// Container holds all initialized services (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories bound to the pool
	Users *repository.UserRepository

	// Shared engines
	Reindexer *rank.Reindexer
	Revisions *revision.Log
	Renderer  *content.Renderer

	// Services
	WishlistService  *service.WishlistService
	WishStockService *service.WishStockService
	CommentService   *service.CommentService
	StockService     *service.StockService

	// RateLimiter is nil when Redis or rate limiting is disabled
	RateLimiter *ratelimit.RateLimiter
	Limits      ratelimit.Limits
}

// NewContainer initializes all services once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	reindexer := rank.NewReindexer(log, cfg.Store.VerifyRanks)
	revisions := revision.NewLog(log)
	renderer := content.NewRenderer()

	filter, err := service.NewStockFilter()
	if err != nil {
		return nil, fmt.Errorf("failed to create stock filter: %w", err)
	}

	c := &Container{
		Components: components,
		Users:      repository.NewUserRepository(components.DB),
		Reindexer:  reindexer,
		Revisions:  revisions,
		Renderer:   renderer,

		WishlistService:  service.NewWishlistService(components.DB, reindexer, log),
		WishStockService: service.NewWishStockService(components.DB, reindexer, filter, log),
		CommentService:   service.NewCommentService(components.DB, revisions, renderer, log),
		StockService:     service.NewStockService(components.DB, components.Cache, cfg.Cache.DefaultTTL, log),
	}

	if cfg.RateLimit.Enabled && components.Redis != nil {
		c.RateLimiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), log)
		c.Limits = ratelimit.DefaultLimits(cfg.RateLimit.WritesPerMinute)
		log.Info("rate limiting enabled", "writes_per_minute", cfg.RateLimit.WritesPerMinute)
	} else if cfg.RateLimit.Enabled {
		log.Warn("rate limiting needs redis; requests will not be limited")
	}

	return c, nil
}
