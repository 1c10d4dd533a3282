// Package compose turns a normalized headline into a length-bounded post.
//
// A headline is split into up to three clauses, decorated with category
// emoji, hashtags and an optional mention, rendered through a fixed set of
// templates, and the candidate closest to the target length wins.
package compose

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// MaxLen is the platform's hard limit in Unicode scalar values.
	MaxLen = 280
	// TargetLen is the preferred post length.
	TargetLen = 220
	// MinLen is the length below which candidates are penalised twice.
	MinLen = 160
)

const (
	fallbackInsight  = "Details are still emerging"
	fallbackTakeaway = "Worth watching how this plays out"
)

// ErrNoContent is returned when the headline has nothing left to post.
var ErrNoContent = errors.New("compose: no usable content")

// Rand is the randomness used for style selection. *math/rand/v2.Rand
// satisfies it; tests pass a seeded or scripted source.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Clauses are the three slots a headline is split into.
type Clauses struct {
	Problem  string
	Insight  string
	Takeaway string
}

// Selection is the style tokens shared by every candidate of one run.
type Selection struct {
	Emojis   []string
	Hashtags []string
	Mention  string
}

// Candidate is one rendered post.
type Candidate struct {
	Template string
	Text     string
	Length   int
	Score    int
}

// Fits reports whether the candidate is within the hard limit.
func (c Candidate) Fits() bool { return c.Length <= MaxLen }

// Composer renders posts from an immutable style table.
type Composer struct {
	table Table
}

// New returns a Composer for table.
func New(table Table) *Composer {
	return &Composer{table: table}
}

// Compose renders every template for title and returns the best fit. It never
// returns more than MaxLen scalar values.
func (c *Composer) Compose(title string, cat Category, rng Rand) (string, error) {
	cands, err := c.Candidates(title, cat, rng)
	if err != nil {
		return "", err
	}
	return Select(cands), nil
}

// Candidates renders title through every template in order, all sharing one
// style selection drawn from rng.
func (c *Composer) Candidates(title string, cat Category, rng Rand) ([]Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoContent
	}
	cl := ExtractClauses(title)
	sel := SelectStyle(c.table.Lookup(cat), rng)

	cands := make([]Candidate, len(templates))
	for i, tpl := range templates {
		text := render(tpl.format, cl, sel)
		n := utf8.RuneCountInString(text)
		cands[i] = Candidate{Template: tpl.name, Text: text, Length: n, Score: Score(n)}
	}
	return cands, nil
}

// ExtractClauses splits title on sentence ends (em-dash and colon count as
// periods) and fills the three slots, falling back to fixed phrases.
func ExtractClauses(title string) Clauses {
	s := strings.NewReplacer("—", ".", ":", ".").Replace(title)

	var parts []string
	for _, p := range strings.Split(s, ".") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	cl := Clauses{
		Problem:  strings.TrimSpace(title),
		Insight:  fallbackInsight,
		Takeaway: fallbackTakeaway,
	}
	if len(parts) > 0 {
		cl.Problem = parts[0]
	}
	if len(parts) > 1 {
		cl.Insight = parts[1]
	}
	if len(parts) > 2 {
		cl.Takeaway = parts[2]
	}
	return cl
}

// SelectStyle draws emoji, hashtags and an optional mention from st.
//
// Draw order is fixed: emoji count, the emoji themselves, the third-hashtag
// coin (only when the pool has three), then the mention (only when the pool
// is non-empty).
func SelectStyle(st Style, rng Rand) Selection {
	n := 1
	if rng.Float64() >= 0.6 {
		n = 2
	}
	sel := Selection{Emojis: sample(st.Emojis, n, rng)}

	h := 2
	if len(st.Hashtags) >= 3 && rng.Float64() < 0.5 {
		h = 3
	}
	sel.Hashtags = st.Hashtags[:min(h, len(st.Hashtags))]

	if len(st.Mentions) > 0 && rng.Float64() < 0.35 {
		sel.Mention = st.Mentions[rng.IntN(len(st.Mentions))]
	}
	return sel
}

// Score is |n-TargetLen| plus twice the shortfall below MinLen.
func Score(n int) int {
	d := n - TargetLen
	if d < 0 {
		d = -d
	}
	return d + 2*max(0, MinLen-n)
}

// Select returns the lowest-scored candidate within MaxLen, earliest first on
// ties. When none fits, the first candidate is cut to MaxLen.
func Select(cands []Candidate) string {
	best := -1
	for i, c := range cands {
		if !c.Fits() {
			continue
		}
		if best < 0 || c.Score < cands[best].Score {
			best = i
		}
	}
	if best >= 0 {
		return cands[best].Text
	}
	if len(cands) == 0 {
		return ""
	}
	return truncate(cands[0].Text, MaxLen)
}

// sample picks n distinct entries of pool without replacement.
func sample(pool []string, n int, rng Rand) []string {
	n = min(n, len(pool))
	p := append([]string(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(p)-i)
		p[i], p[j] = p[j], p[i]
	}
	return p[:n]
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit])
}
