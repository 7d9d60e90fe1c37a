package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"ghwatch/internal/app"
)

var version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	branch := flag.BoolP("branch", "b", false, "start with the current-branch filter active")
	user := flag.BoolP("user", "u", false, "start with the current-user filter active")
	latest := flag.BoolP("latest", "l", false, "start with the latest-run-per-workflow filter active")
	configPath := flag.String("config", "", "override config path (optional)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, defaults to 10s)")
	showVersion := flag.BoolP("version", "V", false, "print version and exit")
	help := flag.BoolP("help", "h", false, "print usage and exit")
	flag.Parse()

	if *help {
		fmt.Println("ghwatch - watch GitHub Actions workflow runs for the current repository")
		fmt.Println()
		fmt.Println("Usage: ghwatch [flags]")
		fmt.Println()
		flag.PrintDefaults()
		return 0
	}
	if *showVersion {
		fmt.Println("ghwatch " + version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		FilterBranch: *branch,
		FilterUser:   *user,
		FilterLatest: *latest,
		Version:      version,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ghwatch: %v\n", err)
		return 1
	}
	return 0
}
