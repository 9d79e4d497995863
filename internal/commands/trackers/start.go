package trackers

import (
	"fmt"

	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStartCommand creates /start
func createStartCommand() *discord.Command {
	return discord.NewCommand(
		"start",
		"Create a donation/progress tracker.",
		"tracker",
		startHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Tracker name",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "goal",
			Description: "Goal amount",
			Required:    true,
		},
		currencyOption("Currency symbol (try $, €, £, A$, ...)"),
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Channel to post the tracker in (defaults to here)",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Optional message/description",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "donate_url",
			Description: "Optional donate link (adds a button)",
		},
	).WithAutoComplete(autocomplete)
}

func startHandler(ctx *discord.CommandContext) error {
	svc, err := trackers()
	if err != nil {
		return err
	}

	channelID := ctx.GetChannelID("channel")
	if channelID == "" {
		channelID = ctx.ChannelID()
	}

	t, err := svc.Create(ctx.GuildID(), tracker.CreateInput{
		Name:      ctx.GetStringOption("name"),
		Goal:      float64(ctx.GetIntOption("goal")),
		Currency:  ctx.GetStringOption("currency"),
		ChannelID: channelID,
		Message:   ctx.GetStringOption("message"),
		DonateURL: ctx.GetStringOption("donate_url"),
	})
	if err != nil {
		return err
	}

	if channelID == ctx.ChannelID() {
		return ctx.ReplyEphemeral(fmt.Sprintf("✅ Tracker **%s** created here.", t.Name))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Tracker **%s** created in <#%s>.", t.Name, channelID))
}
