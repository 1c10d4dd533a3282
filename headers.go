package newsbot

import (
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-newsbot/oauth1"
)

// defaultUserAgent is the fallback User-Agent when no profile UA is available.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// postHeaders returns the headers of a signed create-post call.
func postHeaders(signed *oauth1.SignedRequest, userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	h := signed.Headers()
	h["user-agent"] = userAgent
	h["accept"] = "application/json"
	h["accept-language"] = "en-US,en;q=0.9"
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}

// postHeaderOrder keeps the header order stable for TLS fingerprint consistency.
var postHeaderOrder = []string{
	"authorization",
	"content-type",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}
