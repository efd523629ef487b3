package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wishstock/wishlist/common/bootstrap"
	"github.com/wishstock/wishlist/common/cache"
	"github.com/wishstock/wishlist/common/config"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/stockimport"
)

// Key space of the API's stock cache
const cacheNamespace = "wishlist-api"

var (
	// Import flags
	filePath string
	encoding string
	dryRun   bool
)

// importCmd upserts a dump into the stocks table
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a listed-stock CSV dump",
	Long: `Import reads a CSV dump (code, name, market, _, price, ...) and upserts
every row into the stock catalog. Existing stocks only get their price
updated. Cached copies of repriced stocks are evicted.

Examples:
  stock-import import --file data_1205_20220930.csv
  stock-import import --file dump.csv --encoding utf-8
  stock-import import --file dump.csv --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&filePath, "file", "f", "", "CSV dump to import (required)")
	importCmd.Flags().StringVarP(&encoding, "encoding", "e", string(stockimport.EUCKR), "Character set of the dump: euc-kr or utf-8")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the dump without writing")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	enc, err := stockimport.ParseEncoding(encoding)
	if err != nil {
		return err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()

	stocks, err := stockimport.Parse(f, enc)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	if dryRun {
		fmt.Printf("parsed %d stocks from %s\n", len(stocks), filePath)
		return nil
	}

	cfg, err := config.Load("stock-import")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Service.LogLevel = "debug"
	}

	opts := []bootstrap.Option{
		bootstrap.WithCustomConfig(cfg),
		bootstrap.WithCacheNamespace(cacheNamespace),
	}
	if migrate {
		opts = append(opts, bootstrap.WithDBInitHook(func(d *db.DB) error {
			return db.Migrate(ctx, d)
		}))
	}

	components, err := bootstrap.Setup(ctx, "stock-import", opts...)
	if err != nil {
		return err
	}
	defer components.Shutdown(ctx)

	res, err := stockimport.Upsert(ctx, components.DB, stocks)
	if err != nil {
		return fmt.Errorf("failed to import stocks: %w", err)
	}

	// A process-local cache would belong to this process only
	evicted := 0
	if components.Redis != nil && components.Cache != nil {
		for _, id := range res.Changed {
			if err := components.Cache.Delete(ctx, cache.StockKey(id)); err != nil {
				components.Logger.Warn("failed to evict cached stock", "stock_id", id, "error", err)
				continue
			}
			evicted++
		}
	}

	components.Logger.Info("stock import complete",
		"file", filePath,
		"rows", res.Rows,
		"changed", len(res.Changed),
		"evicted", evicted,
	)
	return nil
}
