package newsbot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTooLong is returned when post text exceeds the platform limit.
	ErrTooLong = errors.New("post text too long")
	// ErrEmptyPost is returned for blank post text.
	ErrEmptyPost = errors.New("post text empty")
	// ErrRateLimited is returned when the local gate refuses a publish.
	ErrRateLimited = errors.New("publish rate limited")
)

// errorClass categorizes X API error responses for targeted handling.
type errorClass int

const (
	errNone       errorClass = iota
	errDuplicate             // 187 or "duplicate content" detail
	errRateLimit             // 88, 185 or HTTP 429
	errAuth                  // 32, 89, 135 or HTTP 401
	errForbidden             // 453 access level, other HTTP 403
	errSuspended             // 64
	errInternal              // 131 or HTTP 5xx
)

func (c errorClass) String() string {
	switch c {
	case errDuplicate:
		return "duplicate"
	case errRateLimit:
		return "rate_limit"
	case errAuth:
		return "auth"
	case errForbidden:
		return "forbidden"
	case errSuspended:
		return "suspended"
	case errInternal:
		return "internal"
	}
	return "none"
}

// apiError is the union of the v1.1 error list and the v2 problem payload.
type apiError struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

// parseAPIError extracts the first error code and a human-readable detail.
func parseAPIError(body []byte) (code int, detail string) {
	var e apiError
	if json.Unmarshal(body, &e) != nil {
		return 0, ""
	}
	if len(e.Errors) > 0 {
		code, detail = e.Errors[0].Code, e.Errors[0].Message
	}
	if e.Detail != "" {
		detail = e.Detail
	} else if detail == "" {
		detail = e.Title
	}
	return code, detail
}

// classifyError inspects a failed response for known X error codes.
func classifyError(status int, body []byte) errorClass {
	code, detail := parseAPIError(body)
	switch code {
	case 187:
		return errDuplicate
	case 88, 185:
		return errRateLimit
	case 32, 89, 135:
		return errAuth
	case 453:
		return errForbidden
	case 64:
		return errSuspended
	case 131:
		return errInternal
	}
	if strings.Contains(strings.ToLower(detail), "duplicate") {
		return errDuplicate
	}
	switch {
	case status == 429:
		return errRateLimit
	case status == 401:
		return errAuth
	case status == 403:
		return errForbidden
	case status >= 500:
		return errInternal
	}
	return errNone
}

// PublishError reports a failed publish. Status is zero for transport
// failures, in which case Err carries the cause.
type PublishError struct {
	Status int
	Body   string // truncated response body
	Code   int    // first API error code, if any
	Detail string
	Err    error

	class errorClass
}

func (e *PublishError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("publish failed: %v", e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("publish HTTP %d (%s): %s", e.Status, e.class, e.Detail)
	}
	return fmt.Sprintf("publish HTTP %d: %s", e.Status, e.Body)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Duplicate reports whether the platform rejected the text as a repeat.
func (e *PublishError) Duplicate() bool { return e.class == errDuplicate }

// RateLimited reports whether the platform throttled the request.
func (e *PublishError) RateLimited() bool { return e.class == errRateLimit }

func newPublishError(status int, body []byte) *PublishError {
	code, detail := parseAPIError(body)
	return &PublishError{
		Status: status,
		Body:   truncateBytes(body, 300),
		Code:   code,
		Detail: detail,
		class:  classifyError(status, body),
	}
}

// parseRateLimitReset parses the X-Rate-Limit-Reset unix timestamp header.
// Falls back to 15 minutes from now if missing or invalid.
func parseRateLimitReset(v string) time.Time {
	if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(ts, 0)
	}
	return time.Now().Add(15 * time.Minute)
}
