// Package events provides event handlers for message events
package events

import (
	"fmt"

	"github.com/PancyStudios/StrikeTrackerBot/internal/services"
	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnMessageCreate(onMessageCreate)
}

// onMessageCreate is called when a new message is created
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	svc := services.Get()
	if svc == nil {
		return
	}
	refreshLauncher(svc, m.Message)
}

// refreshLauncher schedules a launcher repost when msg lands in its guild's
// strike log channel, so the launcher stays the last message there.
func refreshLauncher(svc *services.Services, msg *discordgo.Message) bool {
	if msg == nil || msg.GuildID == "" {
		return false
	}
	logChannel, err := svc.Striker.LogChannel(msg.GuildID)
	if err != nil || logChannel != msg.ChannelID {
		return false
	}
	if msg.ID == svc.Launcher.Current(msg.ChannelID) || striker.IsLauncherMessage(msg) {
		return false
	}

	channelID := msg.ChannelID
	svc.Refresh.Schedule(channelID, func() {
		if _, err := svc.Launcher.PostOrRefresh(channelID, striker.LauncherOptions{}); err != nil {
			logger.Warn(fmt.Sprintf("Launcher refresh in %s failed: %v", channelID, err), "Events")
		}
	})
	return true
}
