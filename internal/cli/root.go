package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "reviewlens",
	Short: "Product research assistant",
	Long: "reviewlens generates cached product reviews with an LLM, identifies products " +
		"from photos, suggests search terms and reads reviews aloud.",
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func fail(code int, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitCode = code
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a config file (yaml, json or toml)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print reviewlens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reviewlens version %s\n", version)
	},
}
