package newsbot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
	"github.com/anatolykoptev/go-newsbot/compose"
	"github.com/anatolykoptev/go-newsbot/oauth1"
)

// doer is the subset of *stealth.BrowserClient the client needs.
type doer interface {
	DoWithHeaderOrder(method, url string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

// Client publishes posts to X with OAuth 1.0a user-context signing.
type Client struct {
	http      doer
	signer    *oauth1.Signer
	limiter   *ratelimit.Limiter
	userAgent string
	jitter    func(context.Context) error
	cfg       ClientConfig
}

// NewClient creates a publishing client. Missing credentials fail here,
// before any network activity.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	signer, err := oauth1.NewSigner(cfg.Credentials)
	if err != nil {
		return nil, err
	}

	profile := stealth.BuiltinProfiles[cfg.ProfileIndex%len(stealth.BuiltinProfiles)]
	opts := []stealth.ClientOption{
		stealth.WithProfile(profile.TLSProfile),
		stealth.WithHeaderOrder(postHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}

	c := newClient(cfg, bc, signer)
	c.userAgent = profile.UserAgent
	if cfg.Proxy != "" {
		slog.Info("publishing via proxy", slog.String("proxy", stealth.MaskProxy(cfg.Proxy)))
	}
	return c, nil
}

// newClient wires a client around an arbitrary transport. cfg must already
// have its defaults applied.
func newClient(cfg ClientConfig, transport doer, signer *oauth1.Signer) *Client {
	c := &Client{
		http:    transport,
		signer:  signer,
		limiter: ratelimit.NewLimiter(cfg.RateLimit),
		cfg:     cfg,
	}
	if cfg.Jitter {
		c.jitter = stealth.DefaultJitter.Sleep
	}
	return c
}

// CreatePost publishes text and returns the created post. The call makes a
// single attempt; the returned error is a *PublishError for any platform or
// transport failure.
func (c *Client) CreatePost(ctx context.Context, text string) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPost
	}
	if n := utf8.RuneCountInString(text); n > compose.MaxLen {
		return nil, fmt.Errorf("%w: %d > %d characters", ErrTooLong, n, compose.MaxLen)
	}

	if c.limiter.IsRateLimited(endpointCreatePost) || !c.limiter.Allow(endpointCreatePost) {
		c.recordAPICall(endpointCreatePost, false, true)
		return nil, fmt.Errorf("%w until %s", ErrRateLimited,
			c.limiter.AvailableAt(endpointCreatePost).Format("15:04:05"))
	}

	payload, err := json.Marshal(createPostRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal CreatePost: %w", err)
	}

	// The JSON body is not part of the signature, so no parameters are signed.
	signed, err := c.signer.Sign(http.MethodPost, c.cfg.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("sign CreatePost: %w", err)
	}

	body, err := c.doPOST(ctx, endpointCreatePost, c.cfg.Endpoint, postHeaders(signed, c.userAgent), payload)
	if err != nil {
		return nil, err
	}

	post, err := parseCreatePost(body)
	if err != nil {
		// The 2xx already means the post exists.
		slog.Warn("CreatePost: unreadable success body", slog.Any("error", err))
		return &Post{Text: text}, nil
	}
	slog.Info("post published", slog.String("id", post.ID), slog.Int("length", utf8.RuneCountInString(text)))
	return post, nil
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}
