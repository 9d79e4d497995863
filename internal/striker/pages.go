package striker

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultPageBudget is the character budget of one summary page
	DefaultPageBudget = 1000

	maxReasonLength = 700
	dateLayout      = "02 Jan 2006, 15:04 UTC"
)

const (
	sectionStrikes  = "Strikes"
	sectionWarnings = "Warnings"
)

type block struct {
	section bool
	name    string
	text    string
}

func sectionHeader(name string) string {
	return "**__" + name + "__**\n"
}

// Mention formats a user mention
func Mention(id string) string {
	return "<@" + id + ">"
}

// FormatDate renders a millisecond timestamp in UTC
func FormatDate(ts int64) string {
	return time.UnixMilli(ts).UTC().Format(dateLayout)
}

// Truncate shortens s to at most n characters, ending with an ellipsis when cut
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

func entryText(ts int64, verb, issuer, reason string) string {
	if reason == "" {
		reason = "—"
	}
	return fmt.Sprintf("> **%s — %s by %s**\n> %s\n\n", FormatDate(ts), verb, Mention(issuer), Truncate(reason, maxReasonLength))
}

// buildBlocks lays out both sections, newest entries first
func buildBlocks(c Chief) []block {
	strikes := append([]Strike(nil), c.Strikes...)
	sort.SliceStable(strikes, func(i, j int) bool { return strikes[i].TS > strikes[j].TS })
	warnings := append([]Warning(nil), c.Warnings...)
	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].TS > warnings[j].TS })

	blocks := make([]block, 0, len(strikes)+len(warnings)+4)

	blocks = append(blocks, block{section: true, name: sectionStrikes, text: sectionHeader(sectionStrikes)})
	if len(strikes) == 0 {
		blocks = append(blocks, block{name: sectionStrikes, text: "No strikes.\n\n"})
	}
	for _, s := range strikes {
		blocks = append(blocks, block{name: sectionStrikes, text: entryText(s.TS, "Logged", s.Issuer, s.Reason)})
	}

	blocks = append(blocks, block{section: true, name: sectionWarnings, text: sectionHeader(sectionWarnings)})
	if len(warnings) == 0 {
		blocks = append(blocks, block{name: sectionWarnings, text: "No warnings.\n\n"})
	}
	for _, w := range warnings {
		blocks = append(blocks, block{name: sectionWarnings, text: entryText(w.TS, "Issued", w.Issuer, w.Reason)})
	}

	return blocks
}

// PageHeader is the first line of every page of a chief's summary
func PageHeader(name string) string {
	return fmt.Sprintf("### Infraction Summary — %s\n\n", name)
}

// Paginate splits a chief's infractions into pages of at most budget
// characters. Pages that continue a section repeat its header. An entry
// longer than the budget gets a page of its own rather than being cut.
// A section header that overflows opens the next page and is written there
// once, and a page never breaks while it holds only headers.
func Paginate(c Chief, budget int) []string {
	if budget <= 0 {
		budget = DefaultPageBudget
	}

	header := PageHeader(c.Name)
	pages := make([]string, 0, 1)

	var current strings.Builder
	current.WriteString(header)
	currentLen := utf8.RuneCountInString(header)
	hasEntries := false
	activeSection := ""

	for _, b := range buildBlocks(c) {
		n := utf8.RuneCountInString(b.text)
		// a page holding only headers keeps the block even when it overflows
		if currentLen+n > budget && hasEntries {
			pages = append(pages, current.String())
			current.Reset()
			current.WriteString(header)
			// a section block carries its own header
			if !b.section && activeSection != "" {
				current.WriteString(sectionHeader(activeSection))
			}
			currentLen = utf8.RuneCountInString(current.String())
			hasEntries = false
		}
		if b.section {
			activeSection = b.name
		} else {
			hasEntries = true
		}
		current.WriteString(b.text)
		currentLen += n
	}

	if last := current.String(); strings.TrimSpace(last) != "" {
		pages = append(pages, last)
	}
	if len(pages) == 0 {
		pages = append(pages, header+"No data.\n")
	}
	return pages
}

// ClampPage limits page to [0, total-1]
func ClampPage(page, total int) int {
	if page >= total {
		page = total - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}
