package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagSpeakOut string

var speakCmd = &cobra.Command{
	Use:   "speak <product>",
	Short: "Write the review for a product as MP3 audio",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if flagSpeakOut == "" {
			fail(ExitUsageError, errors.New("--out is required"))
			return
		}

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
		audio, err := d.speaker.Speak(ctx, analysis)
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}
		if err := os.WriteFile(flagSpeakOut, audio, 0o644); err != nil {
			fail(ExitRuntimeError, fmt.Errorf("writing audio: %w", err))
			return
		}
		fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(audio), flagSpeakOut)
	},
}

func init() {
	speakCmd.Flags().StringVarP(&flagSpeakOut, "out", "o", "", "output MP3 file")
}
