package newsbot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go-newsbot/oauth1"
)

var testCreds = oauth1.Credentials{
	ConsumerKey:    "xvz1evFS4wEEPTGEFPHBog",
	ConsumerSecret: "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
	Token:          "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
	TokenSecret:    "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
}

type capturedRequest struct {
	method  string
	url     string
	headers map[string]string
	body    string
	order   []string
}

// fakeDoer records requests and answers with a canned response.
type fakeDoer struct {
	mu       sync.Mutex
	requests []capturedRequest

	status  int
	body    string
	headers map[string]string
	err     error
	block   chan struct{}
}

func (f *fakeDoer) DoWithHeaderOrder(method, url string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error) {
	if f.block != nil {
		<-f.block
	}
	b, _ := io.ReadAll(body)
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{method: method, url: url, headers: headers, body: string(b), order: order})
	f.mu.Unlock()
	if f.err != nil {
		return nil, nil, 0, f.err
	}
	return []byte(f.body), f.headers, f.status, nil
}

func (f *fakeDoer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, d doer, mutate ...func(*ClientConfig)) *Client {
	t.Helper()
	cfg := ClientConfig{Credentials: testCreds}
	for _, m := range mutate {
		m(&cfg)
	}
	cfg.defaults()
	signer, err := oauth1.NewSigner(cfg.Credentials)
	require.NoError(t, err)
	return newClient(cfg, d, signer)
}

func TestCreatePost_Success(t *testing.T) {
	d := &fakeDoer{status: 201, body: `{"data":{"id":"42","text":"hello world"}}`}
	c := newTestClient(t, d)

	post, err := c.CreatePost(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, &Post{ID: "42", Text: "hello world"}, post)

	require.Equal(t, 1, d.calls())
	req := d.requests[0]
	assert.Equal(t, "POST", req.method)
	assert.Equal(t, DefaultEndpoint, req.url)
	assert.Equal(t, postHeaderOrder, req.order)
	assert.Equal(t, oauth1.ContentTypeJSON, req.headers["content-type"])
	assert.Equal(t, defaultUserAgent, req.headers["user-agent"])

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.body), &payload))
	assert.Equal(t, map[string]string{"text": "hello world"}, payload)

	params, err := oauth1.ParseHeader(req.headers["authorization"])
	require.NoError(t, err)
	assert.Equal(t, testCreds.ConsumerKey, params["oauth_consumer_key"])
	assert.Equal(t, testCreds.Token, params["oauth_token"])
	assert.Equal(t, oauth1.SignatureMethod, params["oauth_signature_method"])
	assert.Equal(t, oauth1.Version, params["oauth_version"])
	assert.NotEmpty(t, params["oauth_signature"])
	assert.NotContains(t, req.headers["authorization"], testCreds.ConsumerSecret)
	assert.NotContains(t, req.headers["authorization"], testCreds.TokenSecret)
}

func TestCreatePost_Non2xxIsPublishError(t *testing.T) {
	d := &fakeDoer{status: 403, body: `{"detail":"You are not allowed to create a Tweet with duplicate content.","status":403}`}
	c := newTestClient(t, d)

	_, err := c.CreatePost(context.Background(), "again")
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 403, pe.Status)
	assert.True(t, pe.Duplicate())
	assert.Contains(t, pe.Detail, "duplicate content")
	assert.Equal(t, 1, d.calls(), "failures are never retried")
}

func TestCreatePost_TransportError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	d := &fakeDoer{err: cause}
	c := newTestClient(t, d)

	_, err := c.CreatePost(context.Background(), "hello")
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Zero(t, pe.Status)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, d.calls())
}

func TestCreatePost_RateLimitedMarksEndpoint(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute).Unix()
	d := &fakeDoer{
		status:  429,
		body:    `{"title":"Too Many Requests","detail":"Too Many Requests","status":429}`,
		headers: map[string]string{"x-rate-limit-reset": strconv.FormatInt(reset, 10)},
	}
	var hooks []bool
	c := newTestClient(t, d, func(cfg *ClientConfig) {
		cfg.MetricsHook = func(endpoint string, success, rateLimited bool) {
			assert.Equal(t, endpointCreatePost, endpoint)
			assert.False(t, success)
			hooks = append(hooks, rateLimited)
		}
	})

	_, err := c.CreatePost(context.Background(), "first")
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.RateLimited())
	assert.True(t, c.limiter.IsRateLimited(endpointCreatePost))

	_, err = c.CreatePost(context.Background(), "second")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, d.calls(), "gated publish must not reach the network")
	assert.Equal(t, []bool{true, true}, hooks)
}

func TestCreatePost_RejectsBeforeNetwork(t *testing.T) {
	d := &fakeDoer{status: 201, body: `{"data":{"id":"1","text":"x"}}`}
	c := newTestClient(t, d)

	_, err := c.CreatePost(context.Background(), strings.Repeat("é", 281))
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = c.CreatePost(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyPost)

	assert.Zero(t, d.calls())
}

func TestCreatePost_ExactlyAtLimit(t *testing.T) {
	d := &fakeDoer{status: 201, body: `{"data":{"id":"7","text":"x"}}`}
	c := newTestClient(t, d)

	_, err := c.CreatePost(context.Background(), strings.Repeat("🚗", 280))
	require.NoError(t, err)
}

func TestCreatePost_Timeout(t *testing.T) {
	d := &fakeDoer{status: 201, block: make(chan struct{})}
	defer close(d.block)
	c := newTestClient(t, d, func(cfg *ClientConfig) {
		cfg.PublishTimeout = 20 * time.Millisecond
	})

	_, err := c.CreatePost(context.Background(), "slow")
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCreatePost_UnreadableSuccessBody(t *testing.T) {
	d := &fakeDoer{status: 200, body: `ok`}
	c := newTestClient(t, d)

	post, err := c.CreatePost(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, post.ID)
	assert.Equal(t, "hello", post.Text)
}

func TestNewClient_MissingCredentials(t *testing.T) {
	creds := testCreds
	creds.TokenSecret = ""
	_, err := NewClient(ClientConfig{Credentials: creds})
	var ce *oauth1.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "access_token_secret", ce.Field)
}

func TestClientConfigDefaults(t *testing.T) {
	var cfg ClientConfig
	cfg.defaults()
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, 20*time.Second, cfg.PublishTimeout)
	assert.NotZero(t, cfg.RateLimit.RequestsPerWindow)
}
