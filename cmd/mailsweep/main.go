package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mailsweep/mailsweep/internal/cli"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	app := cli.New(logger)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
