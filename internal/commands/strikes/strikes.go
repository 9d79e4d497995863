package strikes

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/StrikeTrackerBot/internal/services"
	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createStrikesCommand creates /strikes
func createStrikesCommand() *discord.Command {
	return discord.NewCommand(
		"strikes",
		"Show strikes & warnings (list or detail)",
		"striker",
		strikesHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "chief",
			Description: "Chief name (leave empty to show all)",
			Required:    false,
			MaxLength:   striker.MaxChiefNameLength,
		},
	)
}

// strikesHandler shows the overview table, or one chief's history with a pager
func strikesHandler(ctx *discord.CommandContext) error {
	svc, err := current()
	if err != nil {
		return err
	}
	if err := ctx.Defer(false); err != nil {
		return err
	}

	name := strings.TrimSpace(ctx.GetStringOption("chief"))
	if name == "" {
		rows := svc.Striker.Summaries()
		if len(rows) == 0 {
			return ctx.EditReply("No infractions logged yet.")
		}
		err = ctx.Respond(&discordgo.InteractionResponseData{
			Embeds:          []*discordgo.MessageEmbed{striker.ListEmbed(rows)},
			AllowedMentions: discord.NoMentions(),
		})
	} else {
		embed, components := striker.SummaryMessage(svc.Striker.Chief(name), striker.DefaultPageBudget)
		err = ctx.Respond(&discordgo.InteractionResponseData{
			Embeds:          []*discordgo.MessageEmbed{embed},
			Components:      components,
			AllowedMentions: discord.NoMentions(),
		})
	}
	if err != nil {
		return err
	}

	refreshIfLogChannel(svc, ctx.GuildID(), ctx.ChannelID())
	return nil
}

// refreshIfLogChannel reposts the launcher below a reply made in the log channel
func refreshIfLogChannel(svc *services.Services, guildID, channelID string) {
	logChannel, err := svc.Striker.LogChannel(guildID)
	if err != nil || logChannel != channelID {
		return
	}
	if _, err := svc.Launcher.PostOrRefresh(channelID, striker.LauncherOptions{}); err != nil {
		logger.Warn(fmt.Sprintf("Launcher refresh after /strikes failed: %v", err), "Striker")
	}
}
