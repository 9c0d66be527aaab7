package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rocketscienceinc/tictactoe-board/internal/cli"
)

// main - is the entry point of the application. It runs the command line.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
