package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewlens-gateway/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the review cache",
	Long:  "Inspect the review cache. Only useful with the redis backend; the memory backend is per-process.",
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <product>",
	Short: "Print the cached review for a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, d, ok := commandDeps(cmd.Context(), false)
		if !ok {
			return
		}
		defer d.Close()
		defer d.logger.Sync()

		value, hit, err := d.cache.Get(ctx, cache.ReviewKey(args[0]))
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}
		if !hit {
			fmt.Fprintf(os.Stderr, "No cached review for %q\n", args[0])
			exitCode = ExitRuntimeError
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
	},
}

var cachePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the cache backend answers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, d, ok := commandDeps(cmd.Context(), false)
		if !ok {
			return
		}
		defer d.Close()
		defer d.logger.Sync()

		if err := d.pinger.Ping(ctx); err != nil {
			fail(ExitRuntimeError, err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s cache ok\n", d.cfg.Cache.Backend)
	},
}

func init() {
	cacheCmd.AddCommand(cacheGetCmd)
	cacheCmd.AddCommand(cachePingCmd)
}
