package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/pkg/cache"
)

// backendFlags select where settled layouts are cached.
type backendFlags struct {
	noCache   bool
	redisAddr string
	redisPass string
	redisDB   int
	mongoURI  string
	mongoDB   string
}

func (c *CLI) addBackendFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&c.backend.noCache, "no-cache", false, "disable the layout cache")
	f.StringVar(&c.backend.redisAddr, "redis", os.Getenv("NETGRAPH_REDIS_ADDR"), "cache layouts in Redis at this address")
	f.StringVar(&c.backend.redisPass, "redis-password", os.Getenv("NETGRAPH_REDIS_PASSWORD"), "Redis password")
	f.IntVar(&c.backend.redisDB, "redis-db", 0, "Redis database number")
	f.StringVar(&c.backend.mongoURI, "mongo", os.Getenv("NETGRAPH_MONGO_URI"), "cache layouts in MongoDB at this URI")
	f.StringVar(&c.backend.mongoDB, "mongo-db", appName, "MongoDB database")
}

// newCache opens the cache chosen by the backend flags. Redis wins over
// MongoDB, and both over the local file cache. An unreachable local
// directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	b := c.backend
	switch {
	case b.noCache:
		return cache.NewNullCache(), nil
	case b.redisAddr != "":
		c.Logger.Debug("layout cache", "backend", "redis", "addr", b.redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     b.redisAddr,
			Password: b.redisPass,
			DB:       b.redisDB,
			Prefix:   appName + ":",
		})
	case b.mongoURI != "":
		c.Logger.Debug("layout cache", "backend", "mongo", "database", b.mongoDB)
		return cache.NewMongoCache(ctx, cache.MongoConfig{URI: b.mongoURI, Database: b.mongoDB})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear %s: %w", dir, err)
			}
			printSuccess("Cleared %d cached layouts", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
