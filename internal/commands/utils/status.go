package utils

import (
	"fmt"

	"github.com/PancyStudios/StrikeTrackerBot/internal/services"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/database"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/mqtt"
)

// createStatusCommand creates the /bot status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Show the bot status",
		"bot",
		statusHandler,
	)
}

func statusHandler(ctx *discord.CommandContext) error {
	backend := "unknown"
	if s := services.Get(); s != nil && s.BackendName != "" {
		backend = s.BackendName
	}
	dbStatus, _ := database.Get().GetStatus()

	return ctx.ReplyEphemeral(statusText(backend, dbStatus, onOff(mqtt.Get().IsConnected()), ctx.Client.GuildCount()))
}

func statusText(backend, db, broker string, guilds int) string {
	return fmt.Sprintf(
		"📊 **Bot status**\n"+
			"• Bot: 🟢 Online\n"+
			"• Storage: %s\n"+
			"• Database: %s\n"+
			"• MQTT: %s\n"+
			"• Servers: %d",
		backend,
		db,
		broker,
		guilds,
	)
}

func onOff(ok bool) string {
	if ok {
		return "🟢 Connected"
	}
	return "🔴 Disconnected"
}
