// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Localizer holds the locale heuristics for language-biased providers.
// It is plain configuration data: language tags, a publisher allow-list,
// the locale-specific characters, and an original-title to locale-title
// override table. Any single signal marks a record as a locale match.
type Localizer struct {
	// Tags are the declared-language tags that count as a match
	// ("pol" for Open Library, "pl" for Google Books).
	Tags []string `yaml:"tags"`

	// Marker is appended to matched display titles, e.g. "PL".
	Marker string `yaml:"marker"`

	// Characters are runes that only occur in locale-language text.
	Characters string `yaml:"characters"`

	// Publishers is the allow-list of known locale publishers and labels.
	Publishers []string `yaml:"publishers"`

	// Titles maps original work titles to their locale titles. Used when
	// no locale edition supplies one.
	Titles map[string]string `yaml:"titles"`
}

// DefaultPolish returns the built-in Polish localizer.
func DefaultPolish() *Localizer {
	return &Localizer{
		Tags:       []string{"pol", "pl"},
		Marker:     "PL",
		Characters: "ąćęłńóśźżĄĆĘŁŃÓŚŹŻ",
		Publishers: []string{
			"Wydawnictwo Literackie",
			"Nasza Księgarnia",
			"Prószyński i S-ka",
			"Zysk i S-ka",
			"Media Rodzina",
			"Rebis",
			"Znak",
			"Albatros",
			"Mag",
		},
		Titles: map[string]string{
			"Dune":                  "Diuna",
			"The Witcher":           "Wiedźmin",
			"The Hobbit":            "Hobbit, czyli tam i z powrotem",
			"The Lord of the Rings": "Władca Pierścieni",
		},
	}
}

// LoadLocalizer reads a localizer table from a YAML file.
func LoadLocalizer(path string) (*Localizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading localizer table %s: %w", path, err)
	}
	var l Localizer
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing localizer table %s: %w", path, err)
	}
	return &l, nil
}

// PrimaryTag returns the first language tag, the form sent to providers
// as the locale filter.
func (l *Localizer) PrimaryTag() string {
	if l == nil || len(l.Tags) == 0 {
		return ""
	}
	return l.Tags[0]
}

// ShortTag returns a two-letter language tag for providers that use
// ISO 639-1 filters.
func (l *Localizer) ShortTag() string {
	for _, tag := range l.tags() {
		if len(tag) == 2 {
			return tag
		}
	}
	if t := l.PrimaryTag(); len(t) >= 2 {
		return t[:2]
	}
	return ""
}

// Match reports whether any locale signal fires: a declared language tag,
// locale-specific characters in the title, or an allow-listed publisher.
func (l *Localizer) Match(languages []string, title string, publishers []string) bool {
	return l.MatchLanguage(languages...) || l.MatchTitle(title) || l.MatchPublisher(publishers...)
}

// MatchLanguage reports whether any declared language tag is a locale tag.
func (l *Localizer) MatchLanguage(languages ...string) bool {
	for _, lang := range languages {
		for _, tag := range l.tags() {
			if strings.EqualFold(lang, tag) {
				return true
			}
		}
	}
	return false
}

// MatchTitle reports whether the title contains locale-specific characters.
func (l *Localizer) MatchTitle(title string) bool {
	if l == nil || l.Characters == "" {
		return false
	}
	return strings.ContainsAny(title, l.Characters)
}

// MatchPublisher reports whether any publisher is on the allow-list.
func (l *Localizer) MatchPublisher(publishers ...string) bool {
	if l == nil {
		return false
	}
	for _, pub := range publishers {
		for _, known := range l.Publishers {
			if strings.EqualFold(strings.TrimSpace(pub), known) {
				return true
			}
		}
	}
	return false
}

// LocalTitle looks up the locale title for an original work title.
func (l *Localizer) LocalTitle(original string) (string, bool) {
	if l == nil {
		return "", false
	}
	t, ok := l.Titles[original]
	return t, ok
}

// MarkTitle decorates a display title with the locale marker.
func (l *Localizer) MarkTitle(title string) string {
	if l == nil || l.Marker == "" {
		return title
	}
	return title + " [" + l.Marker + "]"
}

func (l *Localizer) tags() []string {
	if l == nil {
		return nil
	}
	return l.Tags
}
