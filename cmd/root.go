package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/bibliodrift/shelflink/internal/apicache"
	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/manager"
	"github.com/bibliodrift/shelflink/internal/platform"
	"github.com/bibliodrift/shelflink/internal/service"
)

// stdout is swapped out by tests that capture command output.
var stdout io.Writer = os.Stdout

// newManager builds the manager stack from config. Package-level var so
// tests can substitute a manager over stub generators.
var newManager = func() *manager.Manager {
	cfg := config.Load()

	if cfg.PlatformsFile != "" {
		if err := platform.LoadOverrides(cfg.PlatformsFile); err != nil {
			slog.Warn("Failed to load platform overrides", "file", cfg.PlatformsFile, "error", err)
		}
	}

	var opts []service.Option
	if cfg.ResponseCacheFile != "" {
		db, err := apicache.Open(cfg.ResponseCacheFile, cfg.ResponseCacheTTLDuration())
		if err != nil {
			slog.Warn("Failed to open response cache, running uncached", "file", cfg.ResponseCacheFile, "error", err)
		} else {
			opts = append(opts, service.WithResponseCache(db))
		}
	}

	return manager.New(service.New(cfg, opts...))
}

// CLI is the complete command structure for the shelflink tool.
type CLI struct {
	// Global flags
	LogLevel string `help:"Log level (DEBUG, INFO, WARN, ERROR)" default:""`

	Links     LinksCmd     `cmd:"" help:"Aggregate purchase links for a book across platforms"`
	Quick     QuickCmd     `cmd:"" help:"List only the available purchase links for a book"`
	Platforms PlatformsCmd `cmd:"" help:"Show supported platforms and their configuration state"`
	Health    HealthCmd    `cmd:"" help:"Probe the Google Books upstream and report service health"`
	Cache     CacheCmd     `cmd:"" help:"Inspect or clear the caches"`
}

// LinksCmd aggregates links from every requested platform.
type LinksCmd struct {
	Title     string   `short:"t" help:"Book title" required:""`
	Author    string   `short:"a" help:"Book author"`
	ISBN      string   `short:"i" help:"Book ISBN (10 or 13 digits, hyphens allowed)"`
	Platforms []string `short:"p" help:"Platforms to check (default: all configured)"`
	NoCache   bool     `help:"Bypass the result cache"`
}

// QuickCmd returns only available links in display format.
type QuickCmd struct {
	Title  string `short:"t" help:"Book title" required:""`
	Author string `short:"a" help:"Book author"`
	ISBN   string `short:"i" help:"Book ISBN"`
}

// PlatformsCmd prints the platform status report.
type PlatformsCmd struct{}

// HealthCmd runs a live upstream probe.
type HealthCmd struct{}

// CacheCmd groups cache maintenance subcommands.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Clear cached results and persisted API responses"`
	Stats CacheStatsCmd `cmd:"" help:"Show cache statistics"`
}

// CacheClearCmd clears both cache layers.
type CacheClearCmd struct{}

// CacheStatsCmd prints cache statistics.
type CacheStatsCmd struct{}

// Execute runs the Kong-based CLI.
func Execute() {
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("shelflink"),
		kong.Description("Aggregate book purchase links from Google Books, Amazon, Flipkart and Barnes & Noble."),
		kong.UsageOnError(),
	)

	initLogging(cli.LogLevel)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("No config file found, using environment and defaults")
		} else {
			slog.Error("Fatal error reading config file", "error", err)
			os.Exit(1)
		}
	}
}

func initLogging(override string) {
	if override != "" {
		viper.Set("log_level", strings.ToUpper(override))
	}
	cfg := config.Load()

	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: cfg.SlogLevel(),
	})
	slog.SetDefault(slog.New(handler))
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// Run methods for each command

func (c *LinksCmd) Run() error {
	m := newManager()
	defer func() { _ = m.Service().Close() }()

	res := m.Service().GetPurchaseLinks(context.Background(), c.Title, c.Author, c.ISBN, c.Platforms, !c.NoCache)
	if err := printJSON(res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Error)
	}
	return nil
}

func (c *QuickCmd) Run() error {
	m := newManager()
	defer func() { _ = m.Service().Close() }()

	return printJSON(m.QuickLinks(context.Background(), c.Title, c.Author, c.ISBN))
}

func (c *PlatformsCmd) Run() error {
	m := newManager()
	defer func() { _ = m.Service().Close() }()

	return printJSON(m.PlatformInfo())
}

func (c *HealthCmd) Run() error {
	m := newManager()
	defer func() { _ = m.Service().Close() }()

	report := m.HealthCheck(context.Background())
	if err := printJSON(report); err != nil {
		return err
	}
	if !report.Healthy {
		return fmt.Errorf("service unhealthy: %s", report.Error)
	}
	return nil
}

func (c *CacheClearCmd) Run() error {
	m := newManager()
	defer func() { _ = m.Service().Close() }()

	m.ClearCache()
	if err := m.Service().ClearResponseCache(); err != nil {
		return fmt.Errorf("clearing response cache: %w", err)
	}
	fmt.Fprintln(stdout, "caches cleared")
	return nil
}

func (c *CacheStatsCmd) Run() error {
	m := newManager()
	defer func() { _ = m.Service().Close() }()

	return printJSON(m.Service().CacheStats())
}
