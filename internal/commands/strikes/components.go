package strikes

import (
	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// openModalHandler answers a launcher button with the infraction form
func openModalHandler(ctx *discord.CommandContext) error {
	if len(ctx.Args) == 0 {
		return apperrors.Validation("Unknown infraction type.")
	}
	kind, ok := striker.ParseKind(ctx.Args[0])
	if !ok {
		return apperrors.Validation("Unknown infraction type.")
	}
	return ctx.ShowModal(striker.InfractionModal(kind))
}

// pageHandler flips a chief history message to the requested page
func pageHandler(ctx *discord.CommandContext) error {
	svc, err := current()
	if err != nil {
		return err
	}
	key, page, ok := striker.ParsePagerID(ctx.Interaction.MessageComponentData().CustomID)
	if !ok {
		return apperrors.Validation("Unknown page.")
	}

	chief := svc.Striker.PagerChief(key)
	pages := striker.Paginate(chief, striker.DefaultPageBudget)
	page = striker.ClampPage(page, len(pages))

	return ctx.UpdateMessage(&discordgo.InteractionResponseData{
		Embeds:          []*discordgo.MessageEmbed{striker.PageEmbed(pages[page], page, len(pages))},
		Components:      striker.PagerComponents(striker.Key(chief.Name), page, len(pages)),
		AllowedMentions: discord.NoMentions(),
	})
}

// infractionHandler records a submitted strike or warning form
func infractionHandler(ctx *discord.CommandContext) error {
	svc, err := current()
	if err != nil {
		return err
	}
	if len(ctx.Args) == 0 {
		return apperrors.Validation("Unknown infraction type.")
	}
	kind, ok := striker.ParseKind(ctx.Args[0])
	if !ok {
		return apperrors.Validation("Unknown infraction type.")
	}
	if err := ctx.Defer(true); err != nil {
		return err
	}

	chief, reason := striker.ModalValues(ctx.Interaction.ModalSubmitData())
	if _, err := svc.Recorder.Record(ctx.GuildID(), kind, chief, reason, ctx.User().ID); err != nil {
		return err
	}
	return ctx.DeleteReply()
}
