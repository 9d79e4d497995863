package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Messenger is the subset of channel message calls used by the workflows
type Messenger interface {
	Send(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	Edit(data *discordgo.MessageEdit) (*discordgo.Message, error)
	Delete(channelID, messageID string) error
}

// SessionMessenger sends through a discordgo session
type SessionMessenger struct {
	Session *discordgo.Session
}

// NewSessionMessenger creates a Messenger backed by session
func NewSessionMessenger(session *discordgo.Session) *SessionMessenger {
	return &SessionMessenger{Session: session}
}

// Send posts a new message
func (m *SessionMessenger) Send(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return m.Session.ChannelMessageSendComplex(channelID, data)
}

// Edit updates an existing message
func (m *SessionMessenger) Edit(data *discordgo.MessageEdit) (*discordgo.Message, error) {
	return m.Session.ChannelMessageEditComplex(data)
}

// Delete removes a message
func (m *SessionMessenger) Delete(channelID, messageID string) error {
	return m.Session.ChannelMessageDelete(channelID, messageID)
}

// NoMentions suppresses every mention in a message
func NoMentions() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
}
