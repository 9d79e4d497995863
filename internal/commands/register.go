// Package commands registers every slash command, button and modal handler.
// Commands are organized in subdirectories by category.
package commands

import (
	"github.com/PancyStudios/StrikeTrackerBot/internal/commands/strikes"
	"github.com/PancyStudios/StrikeTrackerBot/internal/commands/trackers"
	"github.com/PancyStudios/StrikeTrackerBot/internal/commands/utils"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// /strikes, /strike-launcher, /strikechannel
	strikes.RegisterStrikeCommands(client)

	// /start, /add, /edit, /remove, /list, /help
	trackers.RegisterTrackerCommands(client)

	// /bot ping, /bot status, /bot stats
	utils.RegisterUtilsCommands(client)
}
