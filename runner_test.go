package newsbot

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go-newsbot/compose"
	"github.com/anatolykoptev/go-newsbot/feed"
)

type fakeSource struct {
	items []feed.Item
	urls  [][]string
	calls atomic.Int32
	gate  chan struct{}
}

func (s *fakeSource) Fetch(ctx context.Context, urls []string) []feed.Item {
	s.calls.Add(1)
	s.urls = append(s.urls, urls)
	if s.gate != nil {
		<-s.gate
	}
	return s.items
}

type fakePublisher struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (p *fakePublisher) CreatePost(_ context.Context, text string) (*Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
	if p.err != nil {
		return nil, p.err
	}
	return &Post{ID: "99", Text: text}, nil
}

func testTopics() Topics {
	return Topics{
		"currency": {
			Feeds:    []string{"https://example.com/fx.xml"},
			Emojis:   []string{"💱"},
			Hashtags: []string{"#Markets", "#Forex"},
		},
		"tech": {
			Feeds: []string{"https://example.com/tech.xml", "https://example.com/gadgets.xml"},
		},
	}
}

func newRng() compose.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestRunner_Publishes(t *testing.T) {
	src := &fakeSource{items: []feed.Item{
		{Title: "BREAKING: Reserve bank holds rates steady - Reuters", Source: "Reuters"},
		{Title: "BREAKING: Reserve bank holds rates steady - Reuters", Source: "Mirror"},
	}}
	pub := &fakePublisher{}
	r, err := NewRunner(RunnerConfig{Topics: testTopics(), Category: "currency"}, src, pub, newRng())
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusPublished, out.Status)
	assert.Equal(t, "currency", out.Category)
	assert.Equal(t, "Reserve bank holds rates steady", out.Title)
	assert.Equal(t, "99", out.PostID)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, [][]string{{"https://example.com/fx.xml"}}, src.urls)

	require.Len(t, pub.texts, 1)
	assert.Equal(t, out.Text, pub.texts[0])
	assert.True(t, strings.HasPrefix(out.Text, "💱 "), out.Text)
	assert.Contains(t, out.Text, "Reserve bank holds rates steady")
	assert.LessOrEqual(t, utf8.RuneCountInString(out.Text), compose.MaxLen)
}

func TestRunner_DryRunDoesNotPublish(t *testing.T) {
	src := &fakeSource{items: []feed.Item{{Title: "Chipmaker unveils new processor", Source: "Verge"}}}
	r, err := NewRunner(RunnerConfig{Topics: testTopics(), Category: "tech", DryRun: true}, src, nil, newRng())
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusDryRun, out.Status)
	assert.Equal(t, "Verge", out.Source)
	assert.Contains(t, out.Text, "#News #Headlines", "uncustomized category uses the default style")
	assert.Empty(t, out.PostID)
}

func TestRunner_SkipsWhenNothingUsable(t *testing.T) {
	tests := []struct {
		name  string
		items []feed.Item
	}{
		{"no items", nil},
		{"only noise", []feed.Item{{Title: "LIVE - AP"}, {Title: "   "}}},
		{"too long", []feed.Item{{Title: strings.Repeat("word ", 60)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			r, err := NewRunner(RunnerConfig{Topics: testTopics(), Category: "tech"}, &fakeSource{items: tt.items}, pub, newRng())
			require.NoError(t, err)

			out, err := r.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StatusSkipped, out.Status)
			assert.Empty(t, pub.texts)
		})
	}
}

func TestRunner_PublishFailure(t *testing.T) {
	cause := &PublishError{Status: 503}
	src := &fakeSource{items: []feed.Item{{Title: "Markets open higher"}}}
	r, err := NewRunner(RunnerConfig{Topics: testTopics(), Category: "currency"}, src, &fakePublisher{err: cause}, newRng())
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 503, pe.Status)
}

func TestRunner_RandomCategoryComesFromTopics(t *testing.T) {
	src := &fakeSource{}
	r, err := NewRunner(RunnerConfig{Topics: testTopics(), DryRun: true}, src, nil, newRng())
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 40 {
		out, err := r.Run(context.Background())
		require.NoError(t, err)
		seen[out.Category] = true
	}
	assert.Equal(t, map[string]bool{"currency": true, "tech": true}, seen)
}

func TestRunner_OverlappingRunsShareOneExecution(t *testing.T) {
	src := &fakeSource{
		items: []feed.Item{{Title: "Markets open higher"}},
		gate:  make(chan struct{}),
	}
	pub := &fakePublisher{}
	r, err := NewRunner(RunnerConfig{Topics: testTopics(), Category: "currency"}, src, pub, newRng())
	require.NoError(t, err)

	var wg sync.WaitGroup
	outs := make([]*Outcome, 3)
	for i := range outs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Run(context.Background())
			assert.NoError(t, err)
			outs[i] = out
		}()
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Len(t, pub.texts, 1, "overlapping triggers must not publish twice")
	for _, out := range outs {
		assert.Same(t, outs[0], out)
	}
}

func TestNewRunner_Validation(t *testing.T) {
	src := &fakeSource{}
	pub := &fakePublisher{}

	_, err := NewRunner(RunnerConfig{Topics: Topics{}}, src, pub, newRng())
	assert.Error(t, err)

	_, err = NewRunner(RunnerConfig{Topics: testTopics(), Category: "gardening"}, src, pub, newRng())
	assert.ErrorContains(t, err, "gardening")

	_, err = NewRunner(RunnerConfig{Topics: testTopics()}, src, nil, newRng())
	assert.Error(t, err, "publisher is required outside dry-run")

	_, err = NewRunner(RunnerConfig{Topics: testTopics()}, nil, pub, newRng())
	assert.Error(t, err)

	_, err = NewRunner(RunnerConfig{Topics: testTopics()}, src, pub, nil)
	assert.Error(t, err)
}

func TestRunner_LoopStopsOnCancel(t *testing.T) {
	src := &fakeSource{items: []feed.Item{{Title: "Markets open higher"}}}
	pub := &fakePublisher{err: errors.New("boom")}
	r, err := NewRunner(RunnerConfig{Topics: testTopics(), Category: "currency"}, src, pub, newRng())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Loop(ctx, 10*time.Millisecond) }()

	require.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	assert.Error(t, r.Loop(context.Background(), 0))
}
