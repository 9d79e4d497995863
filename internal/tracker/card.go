package tracker

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	cardColor = 0xC6B1D9
	listColor = 0x3498DB

	donateFooter = "⚠️ If you donate, please include your Discord name in the donation message."
	donateLabel  = "☕ Donate"

	// three fields per tracker, 25 fields per embed
	maxListRows = 8
)

// Card builds the tracker embed and its optional donate button. image is
// the attachment that will be sent with it, if any.
func Card(t Tracker, image *discordgo.File) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	description := fmt.Sprintf("# %s Goal Tracker", t.Name)
	if t.CustomMessage != "" {
		description += "\n" + t.CustomMessage
	}

	embed := &discordgo.MessageEmbed{
		Description: description,
		Color:       cardColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Goal", Value: FormatAmount(t.Currency, t.Goal), Inline: true},
			{Name: "Current", Value: FormatAmount(t.Currency, t.Current), Inline: true},
		},
	}
	if image != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + image.Name}
	}

	components := []discordgo.MessageComponent{}
	if t.DonateURL != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: donateFooter}
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: donateLabel,
					Style: discordgo.LinkButton,
					URL:   t.DonateURL,
				},
			},
		})
	}
	return embed, components
}

func files(image *discordgo.File) []*discordgo.File {
	if image == nil {
		return nil
	}
	return []*discordgo.File{image}
}

// cardSend is the message posting a new card
func cardSend(t Tracker, image *discordgo.File) *discordgo.MessageSend {
	embed, components := Card(t, image)
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
		Files:      files(image),
	}
}

// cardEdit rewrites a card in place. Existing attachments are dropped and the
// image is uploaded again so the attachment:// reference stays valid.
func cardEdit(t Tracker, image *discordgo.File) *discordgo.MessageEdit {
	embed, components := Card(t, image)
	embeds := []*discordgo.MessageEmbed{embed}
	attachments := []*discordgo.MessageAttachment{}
	return &discordgo.MessageEdit{
		ID:          t.MessageID,
		Channel:     t.ChannelID,
		Embeds:      &embeds,
		Components:  &components,
		Files:       files(image),
		Attachments: &attachments,
	}
}

// ListEmbed renders one Name / Progress / Channel row per tracker
func ListEmbed(trackers []Tracker) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📊 Trackers in this server",
		Color: listColor,
	}
	for i, t := range trackers {
		if i == maxListRows {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("…and %d more", len(trackers)-maxListRows),
			}
			break
		}
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Name", Value: t.Name, Inline: true},
			&discordgo.MessageEmbedField{Name: "Progress", Value: t.Progress(), Inline: true},
			&discordgo.MessageEmbedField{Name: "Channel", Value: "<#" + t.ChannelID + ">", Inline: true},
		)
	}
	return embed
}

// Announcement is the public donation message
func Announcement(t Tracker, donorID string, amount float64) string {
	donor := "**Someone**"
	if donorID != "" {
		donor = "<@" + donorID + ">"
	}
	return fmt.Sprintf("🎉 %s donated **%s** to the **%s Goal!** 🎉", donor, FormatAmount(t.Currency, amount), t.Name)
}
