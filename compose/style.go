package compose

import "fmt"

// Category selects the feeds and style assets of a run.
type Category string

// Style holds the per-category tokens a post is decorated with.
type Style struct {
	Emojis   []string
	Hashtags []string
	Mentions []string
}

// DefaultStyle applies to categories the table does not know.
var DefaultStyle = Style{
	Emojis:   []string{"📰", "🗞️"},
	Hashtags: []string{"#News", "#Headlines"},
}

// Table is an immutable Category -> Style lookup.
type Table struct {
	styles map[Category]Style
}

// NewTable copies styles into a Table. Every style needs at least one emoji
// and two hashtags.
func NewTable(styles map[Category]Style) (Table, error) {
	t := Table{styles: make(map[Category]Style, len(styles))}
	for cat, st := range styles {
		if err := st.validate(); err != nil {
			return Table{}, fmt.Errorf("style %q: %w", cat, err)
		}
		t.styles[cat] = Style{
			Emojis:   append([]string(nil), st.Emojis...),
			Hashtags: append([]string(nil), st.Hashtags...),
			Mentions: append([]string(nil), st.Mentions...),
		}
	}
	return t, nil
}

// Lookup returns the style for cat, or DefaultStyle.
func (t Table) Lookup(cat Category) Style {
	if st, ok := t.styles[cat]; ok {
		return st
	}
	return DefaultStyle
}

func (s Style) validate() error {
	if len(s.Emojis) < 1 {
		return fmt.Errorf("needs at least 1 emoji, got %d", len(s.Emojis))
	}
	if len(s.Hashtags) < 2 {
		return fmt.Errorf("needs at least 2 hashtags, got %d", len(s.Hashtags))
	}
	return nil
}
