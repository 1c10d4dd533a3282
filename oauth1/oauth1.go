// Package oauth1 signs single requests with one-legged OAuth 1.0a (HMAC-SHA1)
// on behalf of an account whose access token is already provisioned.
package oauth1

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	SignatureMethod = "HMAC-SHA1"
	Version         = "1.0"

	// ContentTypeJSON is the body type of the create-post call.
	ContentTypeJSON = "application/json"
)

// Credentials are the four opaque secrets issued by the platform.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// ConfigError reports a missing credential. It is returned before any signing.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("oauth1: missing credential %s", e.Field)
}

// Validate returns a *ConfigError for the first empty credential.
func (c Credentials) Validate() error {
	switch {
	case strings.TrimSpace(c.ConsumerKey) == "":
		return &ConfigError{Field: "consumer_key"}
	case strings.TrimSpace(c.ConsumerSecret) == "":
		return &ConfigError{Field: "consumer_secret"}
	case strings.TrimSpace(c.Token) == "":
		return &ConfigError{Field: "access_token"}
	case strings.TrimSpace(c.TokenSecret) == "":
		return &ConfigError{Field: "access_token_secret"}
	}
	return nil
}

// Param is one request parameter included in the signature.
type Param struct {
	Key   string
	Value string
}

// SignedRequest is the only output of signing. It holds no secret material.
type SignedRequest struct {
	Authorization string
	ContentType   string
}

// Headers returns the request headers in the lower-case form the transport expects.
func (r *SignedRequest) Headers() map[string]string {
	return map[string]string{
		"authorization": r.Authorization,
		"content-type":  r.ContentType,
	}
}

// Signer produces Authorization headers for one credential set.
type Signer struct {
	creds Credentials
	nonce func() (string, error)
	now   func() time.Time
}

// NewSigner validates creds and returns a Signer. A missing credential is a
// *ConfigError; nothing is ever signed with an empty secret.
func NewSigner(creds Credentials) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return &Signer{creds: creds, nonce: Nonce, now: time.Now}, nil
}

// Sign signs a request with a fresh nonce and the current Unix time.
func (s *Signer) Sign(method, baseURL string, params []Param) (*SignedRequest, error) {
	nonce, err := s.nonce()
	if err != nil {
		return nil, fmt.Errorf("oauth1 nonce: %w", err)
	}
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return s.SignWith(method, baseURL, params, nonce, ts), nil
}

// SignWith is the deterministic core of Sign: the same inputs always yield
// the same header.
func (s *Signer) SignWith(method, baseURL string, params []Param, nonce, timestamp string) *SignedRequest {
	oauth := s.oauthParams(nonce, timestamp)

	all := make([]Param, 0, len(oauth)+len(params))
	all = append(all, oauth...)
	all = append(all, params...)

	base := SignatureBaseString(method, baseURL, ParameterString(all))
	sig := Signature(base, SigningKey(s.creds.ConsumerSecret, s.creds.TokenSecret))

	oauth = append(oauth, Param{Key: "oauth_signature", Value: sig})
	return &SignedRequest{
		Authorization: AuthorizationHeader(oauth),
		ContentType:   ContentTypeJSON,
	}
}

func (s *Signer) oauthParams(nonce, timestamp string) []Param {
	return []Param{
		{Key: "oauth_consumer_key", Value: s.creds.ConsumerKey},
		{Key: "oauth_nonce", Value: nonce},
		{Key: "oauth_signature_method", Value: SignatureMethod},
		{Key: "oauth_timestamp", Value: timestamp},
		{Key: "oauth_token", Value: s.creds.Token},
		{Key: "oauth_version", Value: Version},
	}
}

// ParameterString encodes every key and value, sorts by encoded key then
// encoded value, and joins the pairs with '&'. Input order does not matter.
func ParameterString(params []Param) string {
	encoded := make([]Param, len(params))
	for i, p := range params {
		encoded[i] = Param{Key: Encode(p.Key), Value: Encode(p.Value)}
	}
	sort.Slice(encoded, func(i, j int) bool {
		if encoded[i].Key != encoded[j].Key {
			return encoded[i].Key < encoded[j].Key
		}
		return encoded[i].Value < encoded[j].Value
	})

	pairs := make([]string, len(encoded))
	for i, p := range encoded {
		pairs[i] = p.Key + "=" + p.Value
	}
	return strings.Join(pairs, "&")
}

// SignatureBaseString joins the upper-cased method, the encoded base URL
// (no query string) and the encoded parameter string with '&'.
func SignatureBaseString(method, baseURL, paramString string) string {
	return strings.ToUpper(method) + "&" + Encode(baseURL) + "&" + Encode(paramString)
}

// SigningKey is enc(consumerSecret)&enc(tokenSecret).
func SigningKey(consumerSecret, tokenSecret string) string {
	return Encode(consumerSecret) + "&" + Encode(tokenSecret)
}

// Signature is base64(HMAC-SHA1(key, base)).
func Signature(base, key string) string {
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// AuthorizationHeader renders `OAuth k="v", ...` with keys in sorted order and
// every value percent-encoded.
func AuthorizationHeader(oauth []Param) string {
	sorted := make([]Param, len(oauth))
	copy(sorted, oauth)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = Encode(p.Key) + `="` + Encode(p.Value) + `"`
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// Nonce returns 32 random bytes from crypto/rand as 64 hex characters.
func Nonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
