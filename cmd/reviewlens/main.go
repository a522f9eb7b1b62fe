// Command reviewlens serves the product review gateway and drives the
// same flows from the terminal.
//
// Usage:
//
//	reviewlens serve                      # run the HTTP gateway
//	reviewlens review "Kindle Paperwhite"  # print a review
//	reviewlens identify --review photo.jpg
//	reviewlens suggest galaxy s2
//	reviewlens speak "Pixel 8" -o pixel.mp3
package main

import (
	"os"

	"reviewlens-gateway/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
