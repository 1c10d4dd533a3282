package compose

import "strings"

type template struct {
	name   string
	format string
}

// templates share the opening and differ in their closer. Order matters: it
// breaks score ties.
var templates = []template{
	{"statement", "{emoji} {problem}. {insight}. Takeaway: {takeaway}. {mention} {hashtags}"},
	{"question", "{emoji} {problem}. {insight}. {takeaway}. Is this the right call, or just the easy one? {mention} {hashtags}"},
	{"critique", "{emoji} {problem}. {insight}. The catch: {takeaway}, and few are asking the hard questions yet. {mention} {hashtags}"},
	{"aside", "{emoji} {problem}. {insight}. {takeaway}. Because nothing calms the nerves like another headline. {mention} {hashtags}"},
	{"tip", "{emoji} Quick read: {problem}. {insight}. Tip: look past the headline. {takeaway}. {mention} {hashtags}"},
	{"prompt", "{emoji} {problem}. {insight}. {takeaway}. What's your take? Tell us below. {mention} {hashtags}"},
}

// doubled punctuation left when a clause already ends a sentence
var punctFix = strings.NewReplacer("?.", "?", "!.", "!")

func render(format string, cl Clauses, sel Selection) string {
	r := strings.NewReplacer(
		"{emoji}", strings.Join(sel.Emojis, ""),
		"{problem}", cl.Problem,
		"{insight}", cl.Insight,
		"{takeaway}", cl.Takeaway,
		"{mention}", sel.Mention,
		"{hashtags}", strings.Join(sel.Hashtags, " "),
	)
	return collapseSpace(punctFix.Replace(r.Replace(format)))
}
