package trackers

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createEditCommand creates /edit
func createEditCommand() *discord.Command {
	return discord.NewCommand(
		"edit",
		"Edit a tracker's settings without removing it.",
		"tracker",
		editHandler,
	).WithOptions(
		nameOption("Existing tracker name to edit"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "new_name",
			Description: "Change the tracker's name",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "goal",
			Description: "Set a new goal amount (integer)",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        "current",
			Description: "Set a new current amount (overwrites current)",
		},
		currencyOption("Change currency (try $, €, £, A$, ...)"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Set/replace the optional message/description",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "donate_url",
			Description: "Set/replace the donate URL (Ko-fi/PayPal link)",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "clear_donate_url",
			Description: "Remove the donate URL & button",
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "move_to_channel",
			Description:  "Move the card to another text/news channel",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
		},
	).WithAutoComplete(autocomplete)
}

// stringPtr returns the option value, or nil when the option is absent or blank
func stringPtr(ctx *discord.CommandContext, name string) *string {
	if !ctx.HasOption(name) {
		return nil
	}
	v := ctx.GetStringOption(name)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func editHandler(ctx *discord.CommandContext) error {
	svc, err := trackers()
	if err != nil {
		return err
	}
	if err := ctx.Defer(true); err != nil {
		return err
	}

	in := tracker.EditInput{
		Name:        ctx.GetStringOption("name"),
		NewName:     stringPtr(ctx, "new_name"),
		Currency:    stringPtr(ctx, "currency"),
		Message:     stringPtr(ctx, "message"),
		DonateURL:   stringPtr(ctx, "donate_url"),
		ClearDonate: ctx.GetBoolOption("clear_donate_url"),
		MoveTo:      ctx.GetChannelID("move_to_channel"),
	}
	if ctx.HasOption("goal") {
		goal := float64(ctx.GetIntOption("goal"))
		in.Goal = &goal
	}
	if ctx.HasOption("current") {
		current := ctx.GetFloatOption("current")
		in.Current = &current
	}

	res, err := svc.Edit(ctx.GuildID(), in)
	if err != nil {
		return err
	}
	return ctx.EditReply(editReply(res))
}

func editReply(res tracker.EditResult) string {
	if !res.CardUpdated {
		return "⚠️ Saved changes to storage, but I couldn't edit or move the original card (message missing or permissions)."
	}
	changes := "No changes provided — nothing to update."
	if len(res.Changes) > 0 {
		changes = strings.Join(res.Changes, "\n")
	}
	return fmt.Sprintf("✅ **%s** updated.\n%s", res.Tracker.Name, changes)
}
