package striker

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	defaultLauncherTitle = "Strikes & Warnings"
	defaultLauncherNote  = "**Strike:** Minor infractions like using fragments on the wrong day.\n" +
		"-# No action will be taken for strikes. It is for logging purposes only\n\n" +
		"**Warning:** More serious infractions where you DM the user and verbally warn them\n" +
		"-# Receiving 3 strikes for the same thing will warrant a warning.\n\n" +
		"__When adding a strike/warning, copy the persons Chief name **exactly**__"
)

// LauncherOptions customises the launcher embed; blanks use the defaults
type LauncherOptions struct {
	Title string
	Note  string
}

// LauncherEvent is published after a launcher is posted
type LauncherEvent struct {
	ChannelID  string `json:"channelId"`
	MessageID  string `json:"messageId"`
	ReplacedID string `json:"replacedId,omitempty"`
}

// Launcher keeps one call-to-action message per channel
type Launcher struct {
	svc       *Service
	messenger discord.Messenger
	events    EventSink
	mu        sync.Mutex
}

// NewLauncher creates a Launcher; events may be nil
func NewLauncher(svc *Service, messenger discord.Messenger, events EventSink) *Launcher {
	return &Launcher{svc: svc, messenger: messenger, events: events}
}

// LauncherMessage builds the launcher embed and its two buttons
func LauncherMessage(opts LauncherOptions) *discordgo.MessageSend {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = defaultLauncherTitle
	}
	note := strings.TrimSpace(opts.Note)
	if note == "" {
		note = defaultLauncherNote
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       title,
			Description: note,
			Color:       launcherColor,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					launcherButton(KindStrike),
					launcherButton(KindWarning),
				},
			},
		},
	}
}

func launcherButton(kind Kind) discordgo.Button {
	return discordgo.Button{
		CustomID: LauncherPrefix + ":" + string(kind),
		Label:    "Add " + kind.Title(),
		Emoji:    &discordgo.ComponentEmoji{Name: "➕"},
		Style:    discordgo.DangerButton,
	}
}

// PostOrRefresh deletes the channel's previous launcher, if any, and posts a
// new one. Failing to delete the old message is ignored.
func (l *Launcher) PostOrRefresh(channelID string, opts LauncherOptions) (*discordgo.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.svc.Launcher(channelID)
	if prev != "" {
		if err := l.messenger.Delete(channelID, prev); err != nil {
			logger.Debug(fmt.Sprintf("Old launcher %s in %s not deleted: %v", prev, channelID, err), "Striker")
		}
	}

	msg, err := l.messenger.Send(channelID, LauncherMessage(opts))
	if err != nil {
		return nil, err
	}

	if err := l.svc.setLauncher(channelID, msg.ID); err != nil {
		return msg, err
	}

	if l.events != nil {
		l.events.PublishEvent("striker/launcher", LauncherEvent{
			ChannelID:  channelID,
			MessageID:  msg.ID,
			ReplacedID: prev,
		})
	}
	return msg, nil
}

// Current returns the recorded launcher message id of a channel
func (l *Launcher) Current(channelID string) string {
	return l.svc.Launcher(channelID)
}

// IsLauncherMessage reports whether msg carries the launcher buttons
func IsLauncherMessage(msg *discordgo.Message) bool {
	if msg == nil {
		return false
	}
	for _, c := range msg.Components {
		row, ok := asActionsRow(c)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if id := buttonID(inner); strings.HasPrefix(id, LauncherPrefix+":") {
				return true
			}
		}
	}
	return false
}

func asActionsRow(c discordgo.MessageComponent) (*discordgo.ActionsRow, bool) {
	switch row := c.(type) {
	case *discordgo.ActionsRow:
		return row, true
	case discordgo.ActionsRow:
		return &row, true
	}
	return nil, false
}

func buttonID(c discordgo.MessageComponent) string {
	switch b := c.(type) {
	case *discordgo.Button:
		return b.CustomID
	case discordgo.Button:
		return b.CustomID
	}
	return ""
}
