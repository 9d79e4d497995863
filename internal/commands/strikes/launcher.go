package strikes

import (
	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createLauncherCommand creates /strike-launcher
func createLauncherCommand() *discord.Command {
	return discord.NewCommand(
		"strike-launcher",
		"Post a launcher with buttons to add strikes/warnings",
		"striker",
		launcherHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "title",
			Description: "Embed title",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "note",
			Description: "Embed description",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func launcherHandler(ctx *discord.CommandContext) error {
	svc, err := current()
	if err != nil {
		return err
	}
	if err := ctx.Defer(true); err != nil {
		return err
	}

	_, err = svc.Launcher.PostOrRefresh(ctx.ChannelID(), striker.LauncherOptions{
		Title: ctx.GetStringOption("title"),
		Note:  ctx.GetStringOption("note"),
	})
	if err != nil {
		return apperrors.External(err, "Could not post the launcher. Ensure I can Send Messages & Embed Links.")
	}
	return ctx.EditReply("Launcher posted. Consider pinning it 🧷")
}
