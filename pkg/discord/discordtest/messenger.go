// Package discordtest provides an in-memory discord.Messenger for tests.
package discordtest

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// SentMessage is a recorded Send call
type SentMessage struct {
	ChannelID string
	ID        string
	Data      *discordgo.MessageSend
}

// Messenger records calls and hands out sequential message ids
type Messenger struct {
	mu      sync.Mutex
	nextID  int
	Sent    []SentMessage
	Edits   []*discordgo.MessageEdit
	Deleted []string // "<channel>/<message>"

	// Failure switches
	SendErr   error
	EditErr   error
	DeleteErr error
}

// New creates an empty Messenger
func New() *Messenger {
	return &Messenger{nextID: 1000}
}

func (m *Messenger) Send(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.nextID++
	id := fmt.Sprintf("%d", m.nextID)
	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, ID: id, Data: data})
	return &discordgo.Message{ID: id, ChannelID: channelID, Content: data.Content, Embeds: data.Embeds, Components: data.Components}, nil
}

func (m *Messenger) Edit(data *discordgo.MessageEdit) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return nil, m.EditErr
	}
	m.Edits = append(m.Edits, data)
	return &discordgo.Message{ID: data.ID, ChannelID: data.Channel}, nil
}

func (m *Messenger) Delete(channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, channelID+"/"+messageID)
	return nil
}

// SentTo returns the messages sent to a channel
func (m *Messenger) SentTo(channelID string) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMessage
	for _, s := range m.Sent {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

// Calls returns the total number of recorded calls
func (m *Messenger) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent) + len(m.Edits) + len(m.Deleted)
}
