// Package tracker manages donation goal trackers: the stored goal state and
// the card message that mirrors it in a channel.
package tracker

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultCurrency is used when a tracker is created without one
const DefaultCurrency = "$"

// Tracker is one donation goal
type Tracker struct {
	Name          string  `json:"name"`
	Goal          float64 `json:"goal"`
	Current       float64 `json:"current"`
	Currency      string  `json:"currency"`
	ChannelID     string  `json:"channelId"`
	MessageID     string  `json:"messageId"`
	CustomMessage string  `json:"customMessage"`
	DonateURL     string  `json:"donateUrl"`
}

// Percent is the tracker's progress bucket
func (t Tracker) Percent() int {
	return Percent(t.Current, t.Goal)
}

// Reached reports whether the goal has been met
func (t Tracker) Reached() bool {
	return t.Goal > 0 && t.Current >= t.Goal
}

// Progress renders "$40 / $100 (40%)"
func (t Tracker) Progress() string {
	return fmt.Sprintf("%s / %s (%d%%)", FormatAmount(t.Currency, t.Current), FormatAmount(t.Currency, t.Goal), t.Percent())
}

// Document maps guild ids to their trackers
type Document map[string][]Tracker

// NewDocument returns an empty Document
func NewDocument() Document {
	return Document{}
}

// sameName compares tracker names case-insensitively
func sameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

func find(list []Tracker, name string) int {
	for i, t := range list {
		if sameName(t.Name, name) {
			return i
		}
	}
	return -1
}

var trailingZero = regexp.MustCompile(`(\.\d)0$`)

// FormatAmount renders an amount with at most two decimals and no redundant
// zeros: 10 → "$10", 10.5 → "$10.5", 10.25 → "$10.25".
func FormatAmount(currency string, amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	s = trailingZero.ReplaceAllString(s, "$1")
	return currency + s
}

// percentEpsilon absorbs binary rounding of cent amounts, e.g. 0.29*100
const percentEpsilon = 1e-9

// Percent is floor(current*100/goal) limited to [0, 100]; 0 without a goal
func Percent(current, goal float64) int {
	if goal <= 0 {
		return 0
	}
	p := math.Floor(current*100/goal + percentEpsilon)
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// ProgressImageName is the asset shown for a percentage
func ProgressImageName(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return fmt.Sprintf("progress-%d.png", percent)
}

// Choice is an autocomplete suggestion
type Choice struct {
	Name  string
	Value string
}

var currencySuggestions = []Choice{
	{Name: "Dollar ($)", Value: "$"},
	{Name: "Euro (€)", Value: "€"},
	{Name: "Pound (£)", Value: "£"},
	{Name: "Yen (¥)", Value: "¥"},
	{Name: "Australian Dollar (A$)", Value: "A$"},
	{Name: "Canadian Dollar (C$)", Value: "C$"},
	{Name: "Bitcoin (₿)", Value: "₿"},
}

const maxChoices = 25

// CurrencySuggestions lists known currencies matching query. Whatever the
// user typed is offered first so any symbol can be used.
func CurrencySuggestions(query string) []Choice {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	out := make([]Choice, 0, len(currencySuggestions)+1)
	seen := map[string]bool{}
	push := func(c Choice) {
		if seen[c.Value] || len(out) >= maxChoices {
			return
		}
		seen[c.Value] = true
		out = append(out, c)
	}

	if typed := strings.TrimSpace(query); typed != "" {
		push(Choice{Name: fmt.Sprintf("Use “%s”", typed), Value: typed})
	}
	for _, c := range currencySuggestions {
		if strings.Contains(fold.String(c.Name), q) || strings.Contains(fold.String(c.Value), q) {
			push(c)
		}
	}
	return out
}
