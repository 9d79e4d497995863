package striker

import (
	"fmt"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// InfractionEvent is published after an infraction was saved
type InfractionEvent struct {
	GuildID   string    `json:"guildId"`
	ChannelID string    `json:"channelId,omitempty"`
	Kind      Kind      `json:"kind"`
	Chief     string    `json:"chief"`
	Reason    string    `json:"reason"`
	Issuer    string    `json:"issuer"`
	At        time.Time `json:"at"`
	Strikes   int       `json:"strikes"`
	Warnings  int       `json:"warnings"`
}

// Recorder saves infractions and announces them in the log channel
type Recorder struct {
	svc       *Service
	messenger discord.Messenger
	launcher  *Launcher
	events    EventSink
	budget    int
	now       func() time.Time
}

// NewRecorder creates a Recorder; events may be nil
func NewRecorder(svc *Service, messenger discord.Messenger, launcher *Launcher, events EventSink) *Recorder {
	return &Recorder{
		svc:       svc,
		messenger: messenger,
		launcher:  launcher,
		events:    events,
		budget:    DefaultPageBudget,
		now:       time.Now,
	}
}

// Record saves the infraction, then posts the announcement with the chief's
// first summary page to the log channel and refreshes the launcher there.
//
// The infraction stays saved when the log channel is missing (a
// configuration error is returned and nothing is sent) or when the post
// fails (an external error is returned).
func (r *Recorder) Record(guildID string, kind Kind, chiefName, reason, issuerID string) (Chief, error) {
	at := r.now()
	chief, err := r.svc.AddInfraction(kind, chiefName, reason, issuerID, at)
	if err != nil {
		return Chief{}, err
	}

	event := InfractionEvent{
		GuildID:  guildID,
		Kind:     kind,
		Chief:    chief.Name,
		Reason:   reason,
		Issuer:   issuerID,
		At:       at.UTC(),
		Strikes:  len(chief.Strikes),
		Warnings: len(chief.Warnings),
	}
	defer func() {
		if r.events != nil {
			r.events.PublishEvent("striker/infraction", event)
		}
	}()

	channelID, err := r.svc.LogChannel(guildID)
	if err != nil {
		return chief, err
	}
	event.ChannelID = channelID

	embed, components := SummaryMessage(chief, r.budget)
	_, err = r.messenger.Send(channelID, &discordgo.MessageSend{
		Content:         Announcement(kind, issuerID, chief.Name, reason),
		Embeds:          []*discordgo.MessageEmbed{embed},
		Components:      components,
		AllowedMentions: discord.NoMentions(),
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to post %s for %s in %s: %v", kind, chief.Name, channelID, err), "Striker")
		return chief, apperrors.External(err, "⚠️ The %s was saved, but I could not post it in <#%s>.", kind, channelID)
	}

	if r.launcher != nil {
		if _, err := r.launcher.PostOrRefresh(channelID, LauncherOptions{}); err != nil {
			logger.Warn(fmt.Sprintf("Launcher refresh after %s failed: %v", kind, err), "Striker")
		}
	}
	return chief, nil
}
