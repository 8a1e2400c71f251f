package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
	"github.com/promptfoundry/bedrocklab/promptcache"
)

var cacheUseRedis bool

var cacheCmd = &cobra.Command{
	Use:   "cache [prompt]",
	Short: "Demonstrate prompt caching by running the same prompt twice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inner, err := languageModel(ctx, "")
		if err != nil {
			return err
		}

		var store promptcache.Store
		if cacheUseRedis {
			if cfg.RedisURL == "" {
				return fmt.Errorf("--redis requires BEDROCKLAB_REDIS_URL")
			}
			store, err = promptcache.NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.CacheTTL)
			if err != nil {
				return err
			}
		} else {
			store = promptcache.NewMemoryStore(cfg.CacheTTL)
		}

		model := promptcache.Wrap(inner, store)
		call := bedrocklab.Call{Prompt: buildPrompt("", strings.Join(args, " "))}

		for i := 1; i <= 2; i++ {
			start := time.Now()
			response, err := model.Generate(ctx, call)
			if err != nil {
				return err
			}
			fmt.Printf("--- call %d (%s) ---\n%s\n\n", i, time.Since(start).Round(time.Millisecond), response.Content.Text())
		}

		stats := model.Stats()
		fmt.Printf("hits: %d  misses: %d  hit rate: %.0f%%\n", stats.Hits, stats.Misses, stats.HitRate()*100)
		return nil
	},
}

func init() {
	cacheCmd.Flags().BoolVar(&cacheUseRedis, "redis", false, "use the Redis store instead of in-memory")
	rootCmd.AddCommand(cacheCmd)
}
