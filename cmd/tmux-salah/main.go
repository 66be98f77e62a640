// Command tmux-salah prints the next prayer for a tmux status line. It runs
// `salah next` with a compact default format and accepts every salah flag.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smokyabdulrahman/salah/internal/cli"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, w io.Writer) error {
	for _, a := range args {
		switch a {
		case "--version", "-version":
			fmt.Fprintf(w, "tmux-salah %s\n", version)
			return nil
		case "--list-methods", "-list-methods":
			return execute(ctx, []string{"methods"}, w)
		}
	}
	return execute(ctx, statusArgs(args), w)
}

func execute(ctx context.Context, args []string, w io.Writer) error {
	rootCmd := cli.NewRootCmd(version)
	rootCmd.SetOut(w)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// statusArgs builds the `next` invocation, defaulting --format to
// name-and-time.
func statusArgs(args []string) []string {
	out := []string{"next"}
	hasFormat := false
	for _, a := range args {
		if a == "--format" || strings.HasPrefix(a, "--format=") {
			hasFormat = true
		}
	}
	if !hasFormat {
		out = append(out, "--format", prayer.FormatNameAndTime)
	}
	return append(out, args...)
}
