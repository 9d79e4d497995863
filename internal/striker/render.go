package striker

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	summaryColor  = 0xB21010
	launcherColor = 0x5865F2

	// PagerPrefix starts the custom id of the pager buttons
	PagerPrefix = "page"
	// LauncherPrefix starts the custom id of the launcher buttons
	LauncherPrefix = "open_modal"
	// ModalPrefix starts the custom id of the infraction modal
	ModalPrefix = "infraction"

	maxFieldLength = 1024

	maxCustomIDLength = 100
	hashedKeyPrefix   = "#"
)

// PageEmbed renders one page of a summary
func PageEmbed(text string, index, total int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: text,
		Color:       summaryColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", index+1, total),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// PagerComponents returns the previous/next row, or nil for a single page
func PagerComponents(key string, page, total int) []discordgo.MessageComponent {
	if total <= 1 {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: PagerID(key, page-1),
					Emoji:    &discordgo.ComponentEmoji{Name: "◀️"},
					Style:    discordgo.SecondaryButton,
					Disabled: page <= 0,
				},
				discordgo.Button{
					CustomID: PagerID(key, page+1),
					Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
					Style:    discordgo.SecondaryButton,
					Disabled: page >= total-1,
				},
			},
		},
	}
}

// PagerID builds "page:<key>:<n>". Keys that would push the id past Discord's
// limit are replaced by "#<fnv64a hex>", resolved by Service.PagerChief.
func PagerID(key string, page int) string {
	id := fmt.Sprintf("%s:%s:%d", PagerPrefix, key, page)
	if utf8.RuneCountInString(id) <= maxCustomIDLength {
		return id
	}
	return fmt.Sprintf("%s:%s:%d", PagerPrefix, hashKey(key), page)
}

func hashKey(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("%s%016x", hashedKeyPrefix, h.Sum64())
}

// ParsePagerID splits a pager custom id. Chief keys may contain colons, so
// the page number is taken after the last one.
func ParsePagerID(customID string) (key string, page int, ok bool) {
	rest, found := strings.CutPrefix(customID, PagerPrefix+":")
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return "", 0, false
	}
	page, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:i], page, true
}

// SummaryMessage renders page 0 of a chief with its pager
func SummaryMessage(c Chief, budget int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	pages := Paginate(c, budget)
	return PageEmbed(pages[0], 0, len(pages)), PagerComponents(Key(c.Name), 0, len(pages))
}

// ListEmbed renders the three column overview of all chiefs with infractions.
// Rows that do not fit in a field are summarised in the footer.
func ListEmbed(rows []Summary) *discordgo.MessageEmbed {
	var names, strikes, warnings []string
	nameLen, strikeLen, warningLen := 0, 0, 0
	shown := 0

	for _, r := range rows {
		s, w := strconv.Itoa(r.Strikes), strconv.Itoa(r.Warnings)
		n := utf8.RuneCountInString(r.Chief) + 1
		if nameLen+n > maxFieldLength || strikeLen+len(s)+1 > maxFieldLength || warningLen+len(w)+1 > maxFieldLength {
			break
		}
		names = append(names, r.Chief)
		strikes = append(strikes, s)
		warnings = append(warnings, w)
		nameLen += n
		strikeLen += len(s) + 1
		warningLen += len(w) + 1
		shown++
	}

	embed := &discordgo.MessageEmbed{
		Title: "Chief Infractions",
		Color: summaryColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Chief", Value: strings.Join(names, "\n"), Inline: true},
			{Name: "Strikes", Value: strings.Join(strikes, "\n"), Inline: true},
			{Name: "Warnings", Value: strings.Join(warnings, "\n"), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if shown < len(rows) {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("…and %d more", len(rows)-shown),
		}
	}
	return embed
}

// Announcement is the content line posted with a new infraction
func Announcement(kind Kind, issuerID, chiefName, reason string) string {
	if reason == "" {
		reason = "—"
	}
	return fmt.Sprintf("**%s** added a **%s** for **%s**.\nReason: %s", Mention(issuerID), kind, chiefName, reason)
}
