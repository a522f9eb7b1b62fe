package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Print search suggestions, one per line",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, d, ok := commandDeps(cmd.Context(), false)
		if !ok {
			return
		}
		defer d.Close()
		defer d.logger.Sync()

		res := d.suggester.Suggest(ctx, strings.Join(args, " "))
		if res.Degraded() {
			fmt.Fprintf(os.Stderr, "Warning: suggestions unavailable: %v\n", res.Err)
			return
		}
		for _, s := range res.Suggestions {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
	},
}
