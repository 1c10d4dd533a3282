package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	newsbot "github.com/anatolykoptev/go-newsbot"
	"github.com/anatolykoptev/go-newsbot/compose"
)

var (
	// Global flags
	topicsPath string
	category   string
	seed       uint64
	logLevel   string
	envFiles   []string
)

var rootCmd = &cobra.Command{
	Use:   "newsbot",
	Short: "newsbot - headline to post publisher for X",
	Long: `newsbot picks a news category, pulls fresh headlines from its feeds,
composes a short styled post and publishes it with OAuth 1.0a user credentials.

Credentials are read from X_API_KEY, X_API_SECRET, X_ACCESS_TOKEN and
X_ACCESS_TOKEN_SECRET, optionally loaded from an env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		newsbot.LoadEnv(envFiles...)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&topicsPath, "topics", "topics.yaml", "Topics YAML file (built-in categories when absent)")
	rootCmd.PersistentFlags().StringVar(&category, "category", "", "Force a category instead of picking one at random")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for reproducible choices (0 = random)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Env files to load before reading credentials")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRand returns the random source for one process.
func newRand() *rand.Rand {
	if seed != 0 {
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the configured categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := newsbot.LoadTopics(topicsPath)
		if err != nil {
			return err
		}
		for _, name := range topics.Names() {
			t := topics[name]
			style := "default style"
			if len(t.Emojis) > 0 {
				style = strings.Join(t.Emojis, "") + " " + strings.Join(t.Hashtags, " ")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %d feeds  %s\n", name, len(t.Feeds), style)
		}
		return nil
	},
}

// styleTable loads the topics and builds the composer table from them.
func styleTable() (newsbot.Topics, compose.Table, error) {
	topics, err := newsbot.LoadTopics(topicsPath)
	if err != nil {
		return nil, compose.Table{}, err
	}
	tbl, err := topics.Table()
	if err != nil {
		return nil, compose.Table{}, err
	}
	return topics, tbl, nil
}
