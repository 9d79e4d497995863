package trackers

import (
	"fmt"

	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createRemoveCommand creates /remove
func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Remove a tracker",
		"tracker",
		removeHandler,
	).WithOptions(nameOption("Name of the tracker")).WithAutoComplete(autocomplete)
}

func removeHandler(ctx *discord.CommandContext) error {
	svc, err := trackers()
	if err != nil {
		return err
	}
	t, err := svc.Remove(ctx.GuildID(), ctx.GetStringOption("name"))
	if err != nil {
		return err
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Tracker **%s** has been removed.", t.Name))
}

// createListCommand creates /list
func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"List all trackers in this server.",
		"tracker",
		listHandler,
	)
}

func listHandler(ctx *discord.CommandContext) error {
	svc, err := trackers()
	if err != nil {
		return err
	}
	list := svc.List(ctx.GuildID())
	if len(list) == 0 {
		return ctx.ReplyEphemeral("ℹ️ No trackers yet. Use `/start` to create one.")
	}
	return ctx.Respond(&discordgo.InteractionResponseData{
		Embeds:          []*discordgo.MessageEmbed{tracker.ListEmbed(list)},
		Flags:           discordgo.MessageFlagsEphemeral,
		AllowedMentions: discord.NoMentions(),
	})
}
