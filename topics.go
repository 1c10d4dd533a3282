package newsbot

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anatolykoptev/go-newsbot/compose"
)

// Topic is one category: where its news comes from and how its posts look.
// A topic with no emojis and no hashtags uses the default style.
type Topic struct {
	Feeds    []string `yaml:"feeds"`
	Emojis   []string `yaml:"emojis"`
	Hashtags []string `yaml:"hashtags"`
	Mentions []string `yaml:"mentions"`
}

// Topics maps category names to their configuration.
type Topics map[string]Topic

// LoadTopics reads a topics YAML file and expands ${VAR} references.
// A missing file yields DefaultTopics. Categories without feeds get a
// Google News search on the category name.
func LoadTopics(path string) (Topics, error) {
	if path == "" {
		return DefaultTopics(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("topics file not found, using built-in categories", slog.String("path", path))
		return DefaultTopics(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var t Topics
	if err := yaml.Unmarshal([]byte(expanded), &t); err != nil {
		return nil, fmt.Errorf("parse topics yaml: %w", err)
	}
	if len(t) == 0 {
		slog.Info("topics file empty, using built-in categories", slog.String("path", path))
		return DefaultTopics(), nil
	}
	for name, topic := range t {
		if len(topic.Feeds) == 0 {
			topic.Feeds = []string{googleNewsSearch(strings.ReplaceAll(name, "_", " "))}
			t[name] = topic
		}
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate topics: %w", err)
	}
	return t, nil
}

// Validate checks that there is at least one category, that every category
// has feeds, and that every custom style is usable.
func (t Topics) Validate() error {
	if len(t) == 0 {
		return errors.New("no categories configured")
	}
	for _, name := range t.Names() {
		if strings.TrimSpace(name) == "" {
			return errors.New("empty category name")
		}
		if len(t[name].Feeds) == 0 {
			return fmt.Errorf("category %q has no feeds", name)
		}
	}
	_, err := t.Table()
	return err
}

// Names returns the category names in sorted order.
func (t Topics) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table builds the composer style table. Categories without custom style
// assets are left out so they fall back to the default style.
func (t Topics) Table() (compose.Table, error) {
	styles := make(map[compose.Category]compose.Style, len(t))
	for name, topic := range t {
		if len(topic.Emojis) == 0 && len(topic.Hashtags) == 0 {
			continue
		}
		styles[compose.Category(name)] = compose.Style{
			Emojis:   topic.Emojis,
			Hashtags: topic.Hashtags,
			Mentions: topic.Mentions,
		}
	}
	return compose.NewTable(styles)
}

// googleNewsSearch returns the Google News RSS search URL for query.
func googleNewsSearch(query string) string {
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(query) + "&hl=en-IN&gl=IN&ceid=IN:en"
}

// DefaultTopics returns the built-in categories.
func DefaultTopics() Topics {
	return Topics{
		"politics": {
			Feeds: []string{
				googleNewsSearch("politics"),
				"https://feeds.bbci.co.uk/news/politics/rss.xml",
				"https://www.aljazeera.com/xml/rss/all.xml",
			},
			Emojis:   []string{"🏛️", "🗳️", "📜"},
			Hashtags: []string{"#Politics", "#Policy", "#Government"},
		},
		"currency": {
			Feeds: []string{
				googleNewsSearch("forex OR currency OR exchange rate"),
				"https://www.reuters.com/markets/currencies/rss",
			},
			Emojis:   []string{"💱", "📈", "💵"},
			Hashtags: []string{"#Markets", "#Forex", "#Currency"},
		},
		"tech": {
			Feeds: []string{
				googleNewsSearch("technology"),
				"https://feeds.arstechnica.com/arstechnica/technology-lab",
				"https://www.theverge.com/rss/index.xml",
			},
			Emojis:   []string{"💻", "📱", "🔧"},
			Hashtags: []string{"#Tech", "#Technology", "#Gadgets"},
		},
		"ai": {
			Feeds:    []string{googleNewsSearch("artificial intelligence")},
			Emojis:   []string{"🤖", "🧠"},
			Hashtags: []string{"#AI", "#MachineLearning", "#GenAI"},
		},
		"current_affairs": {
			Feeds:    []string{googleNewsSearch("current affairs")},
			Emojis:   []string{"📰", "🗞️"},
			Hashtags: []string{"#CurrentAffairs", "#News"},
		},
		"hollywood": {
			Feeds:    []string{googleNewsSearch("hollywood")},
			Emojis:   []string{"🎬", "🍿", "⭐"},
			Hashtags: []string{"#Hollywood", "#Movies", "#Entertainment"},
		},
		"bollywood": {
			Feeds:    []string{googleNewsSearch("bollywood")},
			Emojis:   []string{"🎥", "🎶", "🌟"},
			Hashtags: []string{"#Bollywood", "#Movies", "#Cinema"},
		},
		"formula_one": {
			Feeds:    []string{googleNewsSearch("formula one")},
			Emojis:   []string{"🏎️", "🏁"},
			Hashtags: []string{"#F1", "#Formula1", "#Motorsport"},
			Mentions: []string{"@F1", "@FIA"},
		},
		"social_challenge": {
			Feeds:    []string{googleNewsSearch("social challenge")},
			Emojis:   []string{"🤝", "🌍"},
			Hashtags: []string{"#Society", "#Community"},
		},
		"world_tension": {
			Feeds:    []string{googleNewsSearch("geopolitical tension")},
			Emojis:   []string{"🌐", "⚠️"},
			Hashtags: []string{"#Geopolitics", "#World", "#Security"},
		},
		"world_affairs": {
			Feeds:    []string{googleNewsSearch("world affairs")},
			Emojis:   []string{"🌍", "🗺️"},
			Hashtags: []string{"#WorldNews", "#Diplomacy"},
			Mentions: []string{"@UN"},
		},
		"new_cars": {
			Feeds:    []string{googleNewsSearch("new car launch")},
			Emojis:   []string{"🚗", "🚙"},
			Hashtags: []string{"#Cars", "#NewCars", "#Auto"},
		},
		"auto_tech": {
			Feeds:    []string{googleNewsSearch("automotive technology")},
			Emojis:   []string{"🔋", "🚘", "⚡"},
			Hashtags: []string{"#AutoTech", "#EV", "#Mobility"},
		},
	}
}
