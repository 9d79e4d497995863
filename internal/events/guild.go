// Package events provides event handlers for guild (server) events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// joinedRecently separates a real join from the guild list sent on connect
func joinedRecently(joinedAt, now time.Time) bool {
	return !joinedAt.Before(now.Add(-10 * time.Second))
}

// onGuildCreate is called when the bot joins a server
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !joinedRecently(g.JoinedAt, time.Now()) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Added to server: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Members: %d | Channels: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	welcome := &discordgo.MessageEmbed{
		Title:       "Thanks for adding me! 🎉",
		Description: "Use `/strikechannel` to pick the strike log channel, then `/strike-launcher` there. `/help` lists every command.",
		Color:       0x5865F2,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcome); err != nil {
		logger.Warn(fmt.Sprintf("Error sending welcome message: %v", err), "Guild")
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Server %s became unavailable", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Removed from server ID: %s", g.ID), "Guild")
}
