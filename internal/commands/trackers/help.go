package trackers

import (
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates /help
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Show all available commands",
		"tracker",
		helpHandler,
	)
}

// HelpEmbed lists every tracker and striker command
func HelpEmbed() *discordgo.MessageEmbed {
	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value}
	}
	return &discordgo.MessageEmbed{
		Title:       "🤖 StrikeTracker Help",
		Color:       0x5865F2,
		Description: "Here are the available commands for tracking donations, goals and infractions:",
		Fields: []*discordgo.MessageEmbedField{
			field("/start", "Create a new donation tracker.\nRequired: `name`, `goal`\nOptional: `currency`, `channel`, `message`, `donate_url`"),
			field("/add", "Add an amount to a tracker.\nRequired: `name`, `amount`\nOptional: `mention`, `note`, `announce`"),
			field("/list", "List all trackers in this server."),
			field("/remove", "Remove a tracker by name."),
			field("/edit", "Edit tracker settings without removing it.\nOptions: `new_name`, `goal`, `current`, `currency`, `message`, `donate_url`, `clear_donate_url`, `move_to_channel`"),
			field("/strikes", "Show all chiefs with infractions, or one chief's history.\nOptional: `chief`"),
			field("/strike-launcher", "Post the buttons to add strikes and warnings (Manage Server).\nOptional: `title`, `note`"),
			field("/strikechannel", "Set the strike log channel (Administrator).\nRequired: `channel`"),
			field("/bot", "`ping`, `status` and `stats` about the bot itself."),
			field("/help", "Show this help message."),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "⚠️ Reminder: If you donate, please include your Discord name in the donation message.",
		},
	}
}

func helpHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeralEmbed(HelpEmbed())
}
