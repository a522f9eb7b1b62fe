package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review <product>",
	Short: "Print the review for a product, generating it on cache miss",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, d, ok := commandDeps(cmd.Context(), true)
		if !ok {
			return
		}
		defer d.Close()
		defer d.logger.Sync()

		analysis, err := d.gateway.Analysis(ctx, args[0])
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis)
	},
}

var flagIdentifyReview bool

var identifyCmd = &cobra.Command{
	Use:   "identify <image>",
	Short: "Name the product in a photo",
	Long:  "Identify sends a photo to the vision model and prints the product name. With --review the name is reviewed as well.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		image, err := os.ReadFile(args[0])
		if err != nil {
			fail(ExitUsageError, fmt.Errorf("reading image: %w", err))
			return
		}

		ctx, d, ok := commandDeps(cmd.Context(), true)
		if !ok {
			return
		}
		defer d.Close()
		defer d.logger.Sync()

		product, err := d.resolver.Identify(ctx, image)
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), product)

		if !flagIdentifyReview {
			return
		}
		analysis, err := d.gateway.Analysis(ctx, product)
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), analysis)
	},
}

func init() {
	identifyCmd.Flags().BoolVar(&flagIdentifyReview, "review", false, "also print the review for the identified product")
}
