package newsbot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

type response struct {
	body    []byte
	headers map[string]string
	status  int
	err     error
}

// doPOST executes one signed POST bounded by the publish timeout.
// There are no retries: a second attempt could publish the same text twice.
func (c *Client) doPOST(ctx context.Context, endpoint, url string, headers map[string]string, payload []byte) ([]byte, error) {
	if c.jitter != nil {
		if err := c.jitter(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.PublishTimeout)
	defer cancel()

	ch := make(chan response, 1)
	go func() {
		body, respHdrs, status, err := c.http.DoWithHeaderOrder("POST", url, headers, bytes.NewReader(payload), postHeaderOrder)
		ch <- response{body: body, headers: respHdrs, status: status, err: err}
	}()

	var resp response
	select {
	case resp = <-ch:
	case <-ctx.Done():
		c.recordAPICall(endpoint, false, false)
		return nil, &PublishError{Err: ctx.Err()}
	}

	if resp.err != nil {
		c.recordAPICall(endpoint, false, false)
		if c.cfg.Proxy != "" && isProxyError(resp.err) {
			slog.Warn("proxy error during publish",
				slog.String("proxy", stealth.MaskProxy(c.cfg.Proxy)),
				slog.Any("error", resp.err))
		}
		return nil, &PublishError{Err: resp.err}
	}

	switch {
	case resp.status == 429:
		c.recordAPICall(endpoint, false, true)
		until := parseRateLimitReset(resp.headers["x-rate-limit-reset"])
		c.limiter.MarkRateLimited(endpoint, until)
		slog.Warn("publish rate limited", slog.String("endpoint", endpoint), slog.Time("until", until))
		return nil, newPublishError(resp.status, resp.body)

	case resp.status < 200 || resp.status >= 300:
		c.recordAPICall(endpoint, false, false)
		pe := newPublishError(resp.status, resp.body)
		slog.Warn("publish non-2xx",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.status),
			slog.String("class", pe.class.String()),
			slog.String("body", truncateBytes(resp.body, 500)))
		return nil, pe
	}

	c.recordAPICall(endpoint, true, false)
	return resp.body, nil
}

// isProxyError returns true if the error looks like a proxy connectivity failure.
func isProxyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "proxy") ||
		strings.Contains(msg, "SOCKS") ||
		strings.Contains(msg, "tunnel") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host")
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
