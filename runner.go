package newsbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/anatolykoptev/go-newsbot/compose"
	"github.com/anatolykoptev/go-newsbot/feed"
)

// ItemSource supplies raw headlines for a set of feed URLs.
type ItemSource interface {
	Fetch(ctx context.Context, urls []string) []feed.Item
}

// Publisher publishes one post.
type Publisher interface {
	CreatePost(ctx context.Context, text string) (*Post, error)
}

// Runner is one bot: pick a category, find a fresh headline, compose a post
// and publish it.
type Runner struct {
	cfg       RunnerConfig
	source    ItemSource
	publisher Publisher
	composer  *compose.Composer
	rng       compose.Rand
	names     []string

	sf singleflight.Group
}

// NewRunner validates the configuration and wires the pipeline. publisher may
// be nil in dry-run mode. rng is only used from inside a run, and runs never
// overlap, so it need not be safe for concurrent use.
func NewRunner(cfg RunnerConfig, source ItemSource, publisher Publisher, rng compose.Rand) (*Runner, error) {
	cfg.defaults()

	if err := cfg.Topics.Validate(); err != nil {
		return nil, fmt.Errorf("topics: %w", err)
	}
	if cfg.Category != "" {
		if _, ok := cfg.Topics[cfg.Category]; !ok {
			return nil, fmt.Errorf("unknown category %q", cfg.Category)
		}
	}
	if source == nil {
		return nil, errors.New("nil item source")
	}
	if publisher == nil && !cfg.DryRun {
		return nil, errors.New("nil publisher outside dry-run")
	}
	if rng == nil {
		return nil, errors.New("nil random source")
	}
	table, err := cfg.Topics.Table()
	if err != nil {
		return nil, fmt.Errorf("topics: %w", err)
	}

	return &Runner{
		cfg:       cfg,
		source:    source,
		publisher: publisher,
		composer:  compose.New(table),
		rng:       rng,
		names:     cfg.Topics.Names(),
	}, nil
}

// Run executes one pipeline pass. A trigger that arrives while a run is in
// flight joins it and receives the same outcome.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	v, err, shared := r.sf.Do("run", func() (any, error) {
		return r.run(ctx)
	})
	if shared {
		slog.Debug("joined in-flight run")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Outcome), nil
}

func (r *Runner) run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{RunID: uuid.NewString(), Category: r.pickCategory()}
	log := slog.With(slog.String("run", out.RunID), slog.String("category", out.Category))

	items := feed.Dedup(r.source.Fetch(ctx, r.cfg.Topics[out.Category].Feeds))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debug("headlines fetched", slog.Int("unique", len(items)))

	item, title, ok := r.pickItem(items)
	if !ok {
		log.Info("no usable headline, skipping")
		out.Status = StatusSkipped
		return out, nil
	}
	out.Title, out.Source = title, item.Source

	text, err := r.composer.Compose(title, compose.Category(out.Category), r.rng)
	if errors.Is(err, compose.ErrNoContent) {
		log.Info("nothing to compose, skipping")
		out.Status = StatusSkipped
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	out.Text = text
	length := utf8.RuneCountInString(text)

	if r.cfg.DryRun {
		log.Info("dry run, not publishing", slog.Int("length", length), slog.String("source", item.Source))
		out.Status = StatusDryRun
		return out, nil
	}

	post, err := r.publisher.CreatePost(ctx, text)
	if err != nil {
		log.Warn("publish failed", slog.Int("length", length), slog.Any("error", err))
		return nil, fmt.Errorf("publish: %w", err)
	}
	out.PostID = post.ID
	out.Status = StatusPublished
	log.Info("run published", slog.String("post_id", post.ID), slog.Int("length", length))
	return out, nil
}

// pickCategory returns the forced category or a random configured one.
func (r *Runner) pickCategory() string {
	if r.cfg.Category != "" {
		return r.cfg.Category
	}
	return r.names[r.rng.IntN(len(r.names))]
}

// pickItem shuffles items and returns the first whose normalized title is
// non-empty and short enough.
func (r *Runner) pickItem(items []feed.Item) (feed.Item, string, bool) {
	shuffled := make([]feed.Item, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	for _, it := range shuffled {
		title := compose.Normalize(it.Title)
		if title == "" || utf8.RuneCountInString(title) > r.cfg.MaxTitleLen {
			continue
		}
		return it, title, true
	}
	return feed.Item{}, "", false
}

// Loop runs immediately and then on every tick of interval until ctx is
// cancelled. Failed runs are logged and left for the next tick.
func (r *Runner) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		out, err := r.Run(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			slog.Warn("run failed", slog.Any("error", err))
		default:
			slog.Info("run finished",
				slog.String("run", out.RunID),
				slog.String("status", string(out.Status)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
