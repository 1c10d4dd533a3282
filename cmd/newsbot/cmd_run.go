package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	newsbot "github.com/anatolykoptev/go-newsbot"
	"github.com/anatolykoptev/go-newsbot/feed"
)

var (
	runDryRun      bool
	runInterval    time.Duration
	runProxy       string
	runEndpoint    string
	runJitter      bool
	runFeedTimeout time.Duration
	runMaxPerFeed  int
	runMaxTitleLen int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, compose and publish one post (or one per --interval)",
	Long: `Run executes the pipeline: pick a category, fetch its feeds, drop
duplicate headlines, compose a post and publish it.

Examples:
  newsbot run --dry-run --category currency
  newsbot run --interval 1h`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compose but do not publish")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "Repeat on this interval (0 = run once)")
	runCmd.Flags().StringVar(&runProxy, "proxy", "", "Proxy URL for publishing")
	runCmd.Flags().StringVar(&runEndpoint, "endpoint", newsbot.DefaultEndpoint, "Create-post endpoint")
	runCmd.Flags().BoolVar(&runJitter, "jitter", true, "Sleep a short random time before publishing")
	runCmd.Flags().DurationVar(&runFeedTimeout, "feed-timeout", 15*time.Second, "Timeout per feed request")
	runCmd.Flags().IntVar(&runMaxPerFeed, "max-per-feed", 20, "Headlines taken from each feed")
	runCmd.Flags().IntVar(&runMaxTitleLen, "max-title-len", 140, "Skip headlines longer than this")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topics, err := newsbot.LoadTopics(topicsPath)
	if err != nil {
		return err
	}

	var publisher newsbot.Publisher
	if !runDryRun {
		client, err := newsbot.NewClient(newsbot.ClientConfig{
			Credentials: newsbot.CredentialsFromEnv(),
			Endpoint:    runEndpoint,
			Proxy:       runProxy,
			Jitter:      runJitter,
		})
		if err != nil {
			return fmt.Errorf("publisher: %w", err)
		}
		publisher = client
	}

	runner, err := newsbot.NewRunner(newsbot.RunnerConfig{
		Topics:      topics,
		Category:    category,
		DryRun:      runDryRun,
		MaxTitleLen: runMaxTitleLen,
	}, feed.NewFetcher(runFeedTimeout, runMaxPerFeed), publisher, newRand())
	if err != nil {
		return err
	}

	if runInterval > 0 {
		err := runner.Loop(ctx, runInterval)
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	out, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "status:   %s\ncategory: %s\n", out.Status, out.Category)
	if out.Text != "" {
		fmt.Fprintf(w, "source:   %s\ntext:     %s\n", out.Source, out.Text)
	}
	if out.PostID != "" {
		fmt.Fprintf(w, "post id:  %s\n", out.PostID)
	}
	return nil
}
