// Package striker records strikes and warnings against chiefs, renders the
// paginated infraction summary and keeps the launcher message at the bottom
// of the strike log channel.
package striker

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxChiefNameLength bounds chief names so pager custom ids stay under
// Discord's 100 character limit
const MaxChiefNameLength = 90

// Kind is the type of an infraction
type Kind string

const (
	KindStrike  Kind = "strike"
	KindWarning Kind = "warning"
)

// ParseKind accepts "strike" or "warning"
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindStrike, KindWarning:
		return Kind(s), true
	}
	return "", false
}

// Title returns the capitalised kind, e.g. "Strike"
func (k Kind) Title() string {
	return cases.Title(language.English).String(string(k))
}

// Strike is a minor infraction
type Strike struct {
	TS     int64  `json:"ts"`
	Reason string `json:"reason"`
	Issuer string `json:"issuer"`
}

// Warning is a serious infraction; SentBy is whoever delivered it
type Warning struct {
	TS     int64  `json:"ts"`
	Reason string `json:"reason"`
	Issuer string `json:"issuer"`
	SentBy string `json:"sentBy"`
}

// Chief is the person infractions are recorded against
type Chief struct {
	Name     string    `json:"name"`
	Strikes  []Strike  `json:"strikes"`
	Warnings []Warning `json:"warnings"`
}

// Total is the number of strikes plus warnings
func (c Chief) Total() int {
	return len(c.Strikes) + len(c.Warnings)
}

// Document is the persisted striker state
type Document struct {
	Chiefs    map[string]Chief  `json:"chiefs"`
	Launchers map[string]string `json:"launchers"`
}

// NewDocument returns an empty Document
func NewDocument() Document {
	return Document{
		Chiefs:    map[string]Chief{},
		Launchers: map[string]string{},
	}
}

func (d *Document) normalize() {
	if d.Chiefs == nil {
		d.Chiefs = map[string]Chief{}
	}
	if d.Launchers == nil {
		d.Launchers = map[string]string{}
	}
}

// GuildConfig holds per-guild striker settings
type GuildConfig struct {
	StrikeLogChannelID string `json:"strikeLogChannelId"`
}

// Config maps guild ids to their settings
type Config map[string]GuildConfig

// NewConfig returns an empty Config
func NewConfig() Config {
	return Config{}
}

// Key is the storage key of a chief name
func Key(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// lookup returns the stored chief or a transient empty one
func (d Document) lookup(name string) Chief {
	if c, ok := d.Chiefs[Key(name)]; ok {
		if c.Strikes == nil {
			c.Strikes = []Strike{}
		}
		if c.Warnings == nil {
			c.Warnings = []Warning{}
		}
		return c
	}
	return Chief{Name: strings.TrimSpace(name), Strikes: []Strike{}, Warnings: []Warning{}}
}
