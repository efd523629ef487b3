package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/cmd/wishlist-api/container"
	"github.com/wishstock/wishlist/cmd/wishlist-api/handlers"
	"github.com/wishstock/wishlist/cmd/wishlist-api/middleware"
	commonmw "github.com/wishstock/wishlist/common/middleware"
)

// RegisterRoutes registers the health probe and the authenticated API
func RegisterRoutes(e *echo.Echo, c *container.Container) {
	log := c.Components.Logger

	health := handlers.NewHealthHandler(c.Components.Config.Service.Name, c.Components, log)
	e.GET("/health", health.Health)

	cfg := c.Components.Config.Auth
	api := e.Group("/api/v1", middleware.BearerAuth(c.Users, middleware.AuthOptions{
		Secret:              []byte(cfg.JWTSecret),
		Algorithm:           cfg.Algorithm,
		AllowHeaderIdentity: cfg.AllowHeaderIdentity,
	}, log))
	if c.RateLimiter != nil {
		api.Use(commonmw.UserRateLimitMiddleware(c.RateLimiter, c.Limits, middleware.UserID))
	}

	RegisterStockRoutes(api, handlers.NewStockHandler(c.StockService, log))
	RegisterWishlistRoutes(api,
		handlers.NewWishlistHandler(c.WishlistService, log),
		handlers.NewWishStockHandler(c.WishStockService, log),
	)
	RegisterCommentRoutes(api, handlers.NewCommentHandler(c.CommentService, log))
}

// RegisterStockRoutes registers the catalog routes
func RegisterStockRoutes(g *echo.Group, h *handlers.StockHandler) {
	stocks := g.Group("/stocks")
	{
		stocks.GET("", h.ListStocks)   // GET /api/v1/stocks
		stocks.GET("/:id", h.GetStock) // GET /api/v1/stocks/5
	}
}

// RegisterWishlistRoutes registers wishlists and the stocks inside them
func RegisterWishlistRoutes(g *echo.Group, h *handlers.WishlistHandler, ws *handlers.WishStockHandler) {
	wishlists := g.Group("/wishlists")
	{
		wishlists.POST("", h.CreateWishlist)        // POST /api/v1/wishlists
		wishlists.GET("", h.ListWishlists)          // GET /api/v1/wishlists?sort=name
		wishlists.GET("/:id", h.GetWishlist)        // GET /api/v1/wishlists/3
		wishlists.PATCH("/:id", h.PatchWishlist)    // PATCH /api/v1/wishlists/3
		wishlists.DELETE("/:id", h.DeleteWishlist)  // DELETE /api/v1/wishlists/3
		wishlists.PUT("/:id/order", h.MoveWishlist) // PUT /api/v1/wishlists/3/order?hope_order=0

		wishlists.POST("/:id/stocks", ws.AddStock)                 // POST /api/v1/wishlists/3/stocks
		wishlists.GET("/:id/stocks", ws.ListStocks)                // GET /api/v1/wishlists/3/stocks
		wishlists.GET("/:id/stocks/:stock_id", ws.GetStock)        // GET /api/v1/wishlists/3/stocks/9
		wishlists.PATCH("/:id/stocks/:stock_id", ws.PatchStock)    // PATCH /api/v1/wishlists/3/stocks/9
		wishlists.DELETE("/:id/stocks/:stock_id", ws.DeleteStock)  // DELETE /api/v1/wishlists/3/stocks/9
		wishlists.PUT("/:id/stocks/:stock_id/order", ws.MoveStock) // PUT /api/v1/wishlists/3/stocks/9/order?hope_order=1
	}
}

// RegisterCommentRoutes registers wishlist comments, replies and history
func RegisterCommentRoutes(g *echo.Group, h *handlers.CommentHandler) {
	comments := g.Group("/wishlists/:id/comments")
	{
		comments.POST("", h.CreateComment)                   // POST /api/v1/wishlists/3/comments
		comments.GET("", h.ListComments)                     // GET /api/v1/wishlists/3/comments
		comments.GET("/:comment_id", h.GetComment)           // GET /api/v1/wishlists/3/comments/7
		comments.PUT("/:comment_id", h.UpdateComment)        // PUT /api/v1/wishlists/3/comments/7
		comments.DELETE("/:comment_id", h.DeleteComment)     // DELETE /api/v1/wishlists/3/comments/7
		comments.POST("/:comment_id/replies", h.CreateReply) // POST /api/v1/wishlists/3/comments/7/replies
		comments.GET("/:comment_id/replies", h.ListReplies)  // GET /api/v1/wishlists/3/comments/7/replies
		comments.GET("/:comment_id/history", h.GetHistory)   // GET /api/v1/wishlists/3/comments/7/history
	}
}
