// warden is the edge agent binary.
//
// Usage:
//
//	warden run [--config config.yaml]
//
// The run command loads the layered configuration (defaults, config file,
// WARDEN_* environment overrides), brings up the logging pipeline and the
// metrics endpoint, and blocks until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version information, injectable via -ldflags, e.g.
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "warden:", err)
		return 1
	}
	return 0
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "warden",
		Usage:   "edge agent for the warden control plane",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime),
		Commands: []*cli.Command{
			newRunCommand(),
		},
	}
}
