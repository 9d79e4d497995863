package trackers

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createAddCommand creates /add
func createAddCommand() *discord.Command {
	return discord.NewCommand(
		"add",
		"Add an amount to an existing tracker.",
		"tracker",
		addHandler,
	).WithOptions(
		nameOption("Tracker name"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        "amount",
			Description: "Amount to add (e.g., 25.50).",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "mention",
			Description: `Who donated? (defaults to "Someone")`,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "note",
			Description: "Optional note shown in your confirmation.",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "announce",
			Description: "Post a public “🎉 donated …” message (default: true).",
		},
	).WithAutoComplete(autocomplete)
}

func addHandler(ctx *discord.CommandContext) error {
	svc, err := trackers()
	if err != nil {
		return err
	}
	if err := ctx.Defer(true); err != nil {
		return err
	}

	in := tracker.AddInput{
		Name:    ctx.GetStringOption("name"),
		Amount:  ctx.GetFloatOption("amount"),
		DonorID: ctx.GetUserID("mention"),
	}
	if ctx.HasOption("announce") {
		announce := ctx.GetBoolOption("announce")
		in.Announce = &announce
	}

	res, err := svc.Add(ctx.GuildID(), in)
	if err != nil {
		return err
	}
	return ctx.EditReply(addReply(res, ctx.GetStringOption("note")))
}

func addReply(res tracker.AddResult, note string) string {
	t := res.Tracker
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Added %s to **%s**. Now at %s / %s (%d%%).",
		tracker.FormatAmount(t.Currency, res.Amount),
		t.Name,
		tracker.FormatAmount(t.Currency, t.Current),
		tracker.FormatAmount(t.Currency, t.Goal),
		res.Percent,
	)
	if res.GoalReached {
		b.WriteString(" 🎉 Goal reached!")
	}
	if note != "" {
		b.WriteString("\n📝 " + note)
	}
	if !res.CardUpdated {
		b.WriteString("\n⚠️ Totals saved, but I could not edit the original card (maybe deleted or missing permissions).")
	}
	return b.String()
}
