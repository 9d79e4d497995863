package utils

import (
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
)

// RegisterUtilsCommands registers the /bot subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	group := client.CommandHandler.BuildCommandGroup(
		"bot",
		"Information about the bot",
		createPingCommand(),
		createStatusCommand(),
		createStatsCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
