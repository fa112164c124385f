// Command ping notifies search engines that the sitemap changed.
//
//	ping [flags] [sitemap-url]
//
// Without a URL the sitemap index of --site is pinged.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	hsitemap "catchup-sitemap/internal/handler/http/sitemap"
	"catchup-sitemap/internal/infra/pinger"
	"catchup-sitemap/internal/observability/logging"
	"catchup-sitemap/internal/resilience/retry"
	"catchup-sitemap/internal/usecase/ping"
	"catchup-sitemap/pkg/config"
)

type options struct {
	site      string
	endpoints []string
	retry     bool
	sitemap   string
	cfg       *config.PingConfig
}

type execFunc func(ctx context.Context, opts *options, stdout io.Writer) error

// newRootCmd reads the PING_* environment for flag defaults, so an invalid
// environment fails before any flag is parsed.
func newRootCmd(exec execFunc) (*cobra.Command, error) {
	cfg, err := config.LoadPingConfig()
	if err != nil {
		return nil, err
	}

	opts := &options{cfg: cfg}
	var endpoints []string
	cmd := &cobra.Command{
		Use:   "ping [sitemap-url]",
		Short: "Notify search engines that the sitemap changed",
		Long: `ping sends the sitemap URL to every configured ping endpoint.

A site-relative URL is prefixed with --site. Without a URL the sitemap
index (/sitemap.xml) is pinged.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.sitemap = args[0]
			}
			for _, ep := range endpoints {
				if ep = strings.TrimSpace(ep); ep != "" {
					opts.endpoints = append(opts.endpoints, ep)
				}
			}
			return exec(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.site, "site", config.GetEnvString("SITE_BASE_URL", ""), "site base URL used for relative sitemap URLs (required unless the URL is absolute)")
	f.StringSliceVar(&endpoints, "endpoints", cfg.Endpoints, "comma-separated ping endpoints (default: Google)")
	f.DurationVar(&opts.cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	f.BoolVarP(&opts.retry, "retry", "r", false, "retry failed pings with exponential backoff")
	return cmd, nil
}

func run(ctx context.Context, opts *options, pcfg pinger.Config, stdout io.Writer) error {
	group := ping.NewGroup(hsitemap.Routes{}, pinger.New(pcfg), opts.site, opts.endpoints)
	if opts.retry {
		cfg := retry.PingConfig()
		group.Retry = &cfg
	}

	results, err := group.Ping(ctx, opts.sitemap)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", r.Endpoint, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "OK   %s\n", r.Endpoint)
	}
	return err
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cmd, err := newRootCmd(func(ctx context.Context, opts *options, stdout io.Writer) error {
		return run(ctx, opts, pinger.Config{
			Timeout:           opts.cfg.Timeout,
			RequestsPerSecond: opts.cfg.RequestsPerSecond,
			Burst:             opts.cfg.Burst,
			UserAgent:         opts.cfg.UserAgent,
		}, stdout)
	})
	if err != nil {
		logger.Error("invalid ping configuration", slog.Any("error", err))
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("ping failed", slog.Any("error", err))
		os.Exit(1)
	}
}
