package strikes

import (
	"fmt"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createStrikeChannelCommand creates /strikechannel
func createStrikeChannelCommand() *discord.Command {
	return discord.NewCommand(
		"strikechannel",
		"Set the channel where strikes and warnings are logged",
		"striker",
		strikeChannelHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Log channel",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func strikeChannelHandler(ctx *discord.CommandContext) error {
	svc, err := current()
	if err != nil {
		return err
	}
	channelID := ctx.GetChannelID("channel")
	if channelID == "" {
		return apperrors.Validation("❌ Pick a text channel.")
	}
	if err := svc.Striker.SetLogChannel(ctx.GuildID(), channelID); err != nil {
		return err
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Strike log channel set to <#%s>", channelID))
}
