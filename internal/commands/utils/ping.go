// Package utils provides the /bot information commands
package utils

import (
	"fmt"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
)

// createPingCommand creates the /bot ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Check the bot latency",
		"bot",
		pingHandler,
	)
}

func pingHandler(ctx *discord.CommandContext) error {
	latency := ctx.Session.HeartbeatLatency().Milliseconds()
	return ctx.ReplyEphemeral(fmt.Sprintf("🏓 Pong! Latency: %dms", latency))
}
