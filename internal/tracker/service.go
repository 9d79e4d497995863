package tracker

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/store"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
)

// EventSink receives domain events; pkg/mqtt implements it
type EventSink interface {
	PublishEvent(topic string, payload interface{})
}

// Event is published after every tracker change
type Event struct {
	GuildID string  `json:"guildId"`
	Action  string  `json:"action"`
	Tracker Tracker `json:"tracker"`
	Amount  float64 `json:"amount,omitempty"`
	Percent int     `json:"percent"`
}

// Service runs the tracker workflows
type Service struct {
	doc       *store.Document[Document]
	messenger discord.Messenger
	images    *Images
	events    EventSink
}

// NewService creates a Service; events may be nil
func NewService(backend store.Backend, messenger discord.Messenger, images *Images, events EventSink) *Service {
	return &Service{
		doc:       store.NewDocument(backend, store.TrackerData, NewDocument),
		messenger: messenger,
		images:    images,
		events:    events,
	}
}

func (s *Service) publish(guildID, action string, t Tracker, amount float64) {
	if s.events == nil {
		return
	}
	s.events.PublishEvent("tracker/"+action, Event{
		GuildID: guildID,
		Action:  action,
		Tracker: t,
		Amount:  amount,
		Percent: t.Percent(),
	})
}

func notFound(name string) error {
	return apperrors.Validation("❌ Tracker **%s** not found.", name)
}

func validDonateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.Validation("❌ Donate URL must be an http(s) link.")
	}
	return nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CreateInput holds the /start options
type CreateInput struct {
	Name      string
	Goal      float64
	Currency  string
	ChannelID string
	Message   string
	DonateURL string
}

// Create posts a new card and stores the tracker. A tracker with the same
// name is replaced and its old card deleted.
func (s *Service) Create(guildID string, in CreateInput) (Tracker, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Tracker{}, apperrors.Validation("❌ Tracker name cannot be empty.")
	}
	if !validAmount(in.Goal) || in.Goal <= 0 {
		return Tracker{}, apperrors.Validation("❌ Goal must be greater than 0.")
	}
	if in.DonateURL != "" {
		if err := validDonateURL(in.DonateURL); err != nil {
			return Tracker{}, err
		}
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	t := Tracker{
		Name:          name,
		Goal:          in.Goal,
		Current:       0,
		Currency:      currency,
		ChannelID:     in.ChannelID,
		CustomMessage: in.Message,
		DonateURL:     in.DonateURL,
	}

	msg, err := s.messenger.Send(in.ChannelID, cardSend(t, s.images.Attachment(t.Percent())))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to post tracker %s in %s: %v", name, in.ChannelID, err), "Tracker")
		return Tracker{}, apperrors.External(err, "❌ I couldn't post the tracker (missing permissions or invalid channel).")
	}
	t.ChannelID = msg.ChannelID
	if t.ChannelID == "" {
		t.ChannelID = in.ChannelID
	}
	t.MessageID = msg.ID

	var replaced *Tracker
	err = s.doc.Update(func(doc *Document) error {
		if *doc == nil {
			*doc = Document{}
		}
		list := (*doc)[guildID]
		if i := find(list, name); i >= 0 {
			old := list[i]
			replaced = &old
			list = append(list[:i:i], list[i+1:]...)
		}
		(*doc)[guildID] = append(list, t)
		return nil
	})
	if err != nil {
		if delErr := s.messenger.Delete(t.ChannelID, t.MessageID); delErr != nil {
			logger.Warn(fmt.Sprintf("Could not delete orphaned card %s: %v", t.MessageID, delErr), "Tracker")
		}
		return Tracker{}, err
	}

	if replaced != nil && replaced.MessageID != "" {
		if err := s.messenger.Delete(replaced.ChannelID, replaced.MessageID); err != nil {
			logger.Debug(fmt.Sprintf("Old card of %s not deleted: %v", replaced.Name, err), "Tracker")
		}
	}

	s.publish(guildID, "created", t, 0)
	return t, nil
}

// AddInput holds the /add options
type AddInput struct {
	Name    string
	Amount  float64
	DonorID string
	// Announce defaults to true when nil
	Announce *bool
}

// AddResult reports what /add did
type AddResult struct {
	Tracker     Tracker
	Amount      float64
	Percent     int
	GoalReached bool
	CardUpdated bool
	Announced   bool
}

// Add increments a tracker, capped at its goal. The new total is saved even
// when the card cannot be edited.
func (s *Service) Add(guildID string, in AddInput) (AddResult, error) {
	if !validAmount(in.Amount) || in.Amount <= 0 {
		return AddResult{}, apperrors.Validation("❌ Amount must be greater than 0.")
	}

	var t Tracker
	err := s.doc.Update(func(doc *Document) error {
		list := (*doc)[guildID]
		i := find(list, in.Name)
		if i < 0 {
			return notFound(in.Name)
		}
		list[i].Current = math.Min(list[i].Goal, list[i].Current+in.Amount)
		t = list[i]
		return nil
	})
	if err != nil {
		return AddResult{}, err
	}

	res := AddResult{
		Tracker:     t,
		Amount:      in.Amount,
		Percent:     t.Percent(),
		GoalReached: t.Reached(),
	}

	if _, err := s.messenger.Edit(cardEdit(t, s.images.Attachment(res.Percent))); err != nil {
		logger.Warn(fmt.Sprintf("Could not edit card of %s: %v", t.Name, err), "Tracker")
	} else {
		res.CardUpdated = true
	}

	if in.Announce == nil || *in.Announce {
		_, err := s.messenger.Send(t.ChannelID, &discordgo.MessageSend{Content: Announcement(t, in.DonorID, in.Amount)})
		if err != nil {
			logger.Warn(fmt.Sprintf("Could not announce donation to %s: %v", t.Name, err), "Tracker")
		} else {
			res.Announced = true
		}
	}

	s.publish(guildID, "donation", t, in.Amount)
	return res, nil
}

// EditInput holds the /edit options; nil fields are left unchanged
type EditInput struct {
	Name        string
	NewName     *string
	Goal        *float64
	Current     *float64
	Currency    *string
	Message     *string
	DonateURL   *string
	ClearDonate bool
	MoveTo      string
}

// EditResult reports what /edit changed
type EditResult struct {
	Tracker     Tracker
	Changes     []string
	CardUpdated bool
	Clamped     bool
}

// Edit applies the supplied fields. Every field is validated before anything
// changes. The result is saved even if the card could not be updated.
func (s *Service) Edit(guildID string, in EditInput) (EditResult, error) {
	list := s.doc.Load()[guildID]
	i := find(list, in.Name)
	if i < 0 {
		return EditResult{}, notFound(in.Name)
	}
	original := list[i]
	t := original

	// validation
	if in.NewName != nil {
		n := strings.TrimSpace(*in.NewName)
		if n == "" {
			return EditResult{}, apperrors.Validation("❌ Tracker name cannot be empty.")
		}
		if !sameName(n, t.Name) {
			if j := find(list, n); j >= 0 && j != i {
				return EditResult{}, apperrors.Validation("❌ Another tracker named **%s** already exists.", n)
			}
		}
	}
	if in.Goal != nil && (!validAmount(*in.Goal) || *in.Goal <= 0) {
		return EditResult{}, apperrors.Validation("❌ Goal must be greater than 0.")
	}
	if in.Current != nil && (!validAmount(*in.Current) || *in.Current < 0) {
		return EditResult{}, apperrors.Validation("❌ Current cannot be negative.")
	}
	if !in.ClearDonate && in.DonateURL != nil && *in.DonateURL != "" {
		if err := validDonateURL(*in.DonateURL); err != nil {
			return EditResult{}, err
		}
	}

	res := EditResult{}
	change := func(format string, args ...interface{}) {
		res.Changes = append(res.Changes, fmt.Sprintf(format, args...))
	}

	if in.NewName != nil {
		n := strings.TrimSpace(*in.NewName)
		if n != t.Name {
			change("• Name: **%s** → **%s**", t.Name, n)
			t.Name = n
		}
	}
	if in.Goal != nil {
		change("• Goal: %s → %s", FormatAmount(t.Currency, t.Goal), FormatAmount(t.Currency, *in.Goal))
		t.Goal = *in.Goal
		if t.Current > t.Goal {
			t.Current = t.Goal
			res.Clamped = true
			change("• Current clamped to goal: %s", FormatAmount(t.Currency, t.Current))
		}
	}
	if in.Current != nil {
		if *in.Current > t.Goal {
			change("• Current: %s → %s (clamped to goal)", FormatAmount(t.Currency, t.Current), FormatAmount(t.Currency, t.Goal))
			t.Current = t.Goal
			res.Clamped = true
		} else {
			change("• Current: %s → %s", FormatAmount(t.Currency, t.Current), FormatAmount(t.Currency, *in.Current))
			t.Current = *in.Current
		}
	}
	if in.Currency != nil {
		if c := strings.TrimSpace(*in.Currency); c != "" && c != t.Currency {
			change("• Currency: **%s** → **%s**", t.Currency, c)
			t.Currency = c
		}
	}
	if in.Message != nil {
		switch {
		case *in.Message == "" && t.CustomMessage != "":
			change("• Message: cleared")
		case *in.Message != "" && t.CustomMessage != "":
			change("• Message: updated")
		case *in.Message != "":
			change("• Message: set")
		}
		t.CustomMessage = *in.Message
	}
	if in.ClearDonate {
		if t.DonateURL != "" {
			change("• Donate URL: **cleared**")
			t.DonateURL = ""
		}
	} else if in.DonateURL != nil {
		if t.DonateURL != "" {
			change("• Donate URL: updated")
		} else {
			change("• Donate URL: set")
		}
		t.DonateURL = *in.DonateURL
	}

	image := s.images.Attachment(t.Percent())
	if in.MoveTo != "" && in.MoveTo != t.ChannelID {
		msg, err := s.messenger.Send(in.MoveTo, cardSend(t, image))
		if err != nil {
			logger.Warn(fmt.Sprintf("Could not move card of %s to %s: %v", t.Name, in.MoveTo, err), "Tracker")
		} else {
			if err := s.messenger.Delete(t.ChannelID, t.MessageID); err != nil {
				logger.Debug(fmt.Sprintf("Old card of %s not deleted: %v", t.Name, err), "Tracker")
			}
			t.ChannelID = in.MoveTo
			if msg.ChannelID != "" {
				t.ChannelID = msg.ChannelID
			}
			t.MessageID = msg.ID
			res.CardUpdated = true
			change("• Moved card to <#%s>.", t.ChannelID)
		}
	} else if _, err := s.messenger.Edit(cardEdit(t, image)); err != nil {
		logger.Warn(fmt.Sprintf("Could not edit card of %s: %v", t.Name, err), "Tracker")
	} else {
		res.CardUpdated = true
	}

	err := s.doc.Update(func(doc *Document) error {
		list := (*doc)[guildID]
		j := find(list, original.Name)
		if j < 0 {
			return notFound(original.Name)
		}
		list[j] = t
		return nil
	})
	if err != nil {
		return EditResult{}, err
	}

	res.Tracker = t
	s.publish(guildID, "edited", t, 0)
	return res, nil
}

// Remove deletes a tracker and, best effort, its card
func (s *Service) Remove(guildID, name string) (Tracker, error) {
	var removed Tracker
	err := s.doc.Update(func(doc *Document) error {
		list := (*doc)[guildID]
		i := find(list, name)
		if i < 0 {
			return notFound(name)
		}
		removed = list[i]
		(*doc)[guildID] = append(list[:i:i], list[i+1:]...)
		return nil
	})
	if err != nil {
		return Tracker{}, err
	}

	if removed.MessageID != "" {
		if err := s.messenger.Delete(removed.ChannelID, removed.MessageID); err != nil {
			logger.Debug(fmt.Sprintf("Card of %s not deleted: %v", removed.Name, err), "Tracker")
		}
	}

	s.publish(guildID, "removed", removed, 0)
	return removed, nil
}

// Get returns one tracker by name
func (s *Service) Get(guildID, name string) (Tracker, bool) {
	list := s.doc.Load()[guildID]
	if i := find(list, name); i >= 0 {
		return list[i], true
	}
	return Tracker{}, false
}

// List returns the guild's trackers in creation order
func (s *Service) List(guildID string) []Tracker {
	return append([]Tracker(nil), s.doc.Load()[guildID]...)
}

// Names returns up to 25 tracker names containing query
func (s *Service) Names(guildID, query string) []string {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	var names []string
	for _, t := range s.doc.Load()[guildID] {
		if strings.Contains(fold.String(t.Name), q) {
			names = append(names, t.Name)
			if len(names) == maxChoices {
				break
			}
		}
	}
	return names
}
