// Package feed retrieves headlines from RSS/Atom sources and collapses them
// to unique items.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Item is one headline handed to the composer.
type Item struct {
	Title  string
	Source string
}

// Dedup returns the unique items in first-seen order. Two items are the same
// when the SHA-256 of their whitespace-collapsed titles match; case is kept.
// Items whose title collapses to nothing are dropped.
func Dedup(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		title := collapse(it.Title)
		if title == "" {
			continue
		}
		key := hashKey(title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func hashKey(title string) string {
	sum := sha256.Sum256([]byte(title))
	return hex.EncodeToString(sum[:])
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
