package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ghwatch/internal/config"
	"ghwatch/internal/filter"
	"ghwatch/internal/gh"
	"ghwatch/internal/logging"
	"ghwatch/internal/poll"
	"ghwatch/internal/store"
	"ghwatch/internal/ui"
)

// Options configure one ghwatch invocation. Filter flags pre-activate the
// corresponding toggles before the first render.
type Options struct {
	ConfigPath string // empty uses default ~/.config/ghwatch/config.toml
	PollEvery  int    // seconds; zero uses the configured or default interval

	FilterBranch bool
	FilterUser   bool
	FilterLatest bool

	Version string
}

// Run boots the watcher TUI and blocks until the user quits or the context
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	client, err := gh.NewClient(ctx, cfg.RunLimit)
	if err != nil {
		return startupError(err)
	}

	fctx, err := resolveFilterContext(ctx, logger)
	if err != nil {
		return err
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.Info("starting",
		zap.String("repo", client.Repo().Slug()),
		zap.Duration("poll_interval", interval),
		zap.String("version", opts.Version))

	model := ui.New(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store.New(),
		Scheduler: poll.NewScheduler(interval),
		Filters: filter.Set{
			Branch: opts.FilterBranch,
			User:   opts.FilterUser,
			Latest: opts.FilterLatest,
		},
		FilterContext: fctx,
		Logger:        logger,
		Theme:         cfg.Theme,
		Version:       opts.Version,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ui terminated", zap.Error(err))
		return fmt.Errorf("run ui: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// resolveFilterContext captures the current branch and authenticated login
// once at startup. A missing login or detached HEAD is survivable: the
// corresponding filter just matches nothing until the context exists.
func resolveFilterContext(ctx context.Context, logger *zap.Logger) (filter.Context, error) {
	var fctx filter.Context

	login, err := gh.CurrentLogin(ctx)
	switch {
	case errors.Is(err, gh.ErrUnauthenticated):
		return fctx, startupError(err)
	case err != nil:
		logger.Warn("could not resolve login", zap.Error(err))
	default:
		fctx.User = login
	}

	branch, err := gh.CurrentBranch(ctx)
	if err != nil {
		logger.Warn("could not resolve branch", zap.Error(err))
	} else {
		fctx.Branch = branch
	}

	return fctx, nil
}

// startupError turns the client's sentinel errors into actionable messages
// for the terminal, before the alternate screen is entered.
func startupError(err error) error {
	switch {
	case errors.Is(err, gh.ErrMissing):
		return errors.New("gh executable not found; install the GitHub CLI from https://cli.github.com")
	case errors.Is(err, gh.ErrUnauthenticated):
		return errors.New("not logged in to GitHub; run `gh auth login` first")
	case errors.Is(err, gh.ErrNoRepository):
		return errors.New("current directory is not inside a GitHub repository")
	default:
		return err
	}
}
