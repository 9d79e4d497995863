package tracker

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord/discordtest"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guildA   = "900000000000000001"
	channelA = "800000000000000001"
	channelB = "800000000000000002"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type eventRecorder struct {
	topics []string
}

func (e *eventRecorder) PublishEvent(topic string, _ interface{}) {
	e.topics = append(e.topics, topic)
}

func newTestService(t *testing.T) (*Service, *discordtest.Messenger, *eventRecorder) {
	t.Helper()
	m := discordtest.New()
	events := &eventRecorder{}
	return NewService(store.NewFileBackend(t.TempDir()), m, NewImages(""), events), m, events
}

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, s *Service, name string, goal float64) Tracker {
	t.Helper()
	tr, err := s.Create(guildA, CreateInput{Name: name, Goal: goal, ChannelID: channelA})
	require.NoError(t, err)
	return tr
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		10:     "$10",
		10.5:   "$10.5",
		10.25:  "$10.25",
		0:      "$0",
		1000.1: "$1000.1",
		99.999: "$100",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount("$", in), "amount %v", in)
	}
	assert.Equal(t, "€7.5", FormatAmount("€", 7.50))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(10, 0))
	assert.Equal(t, 0, Percent(-5, 100))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 66, Percent(2, 3))
	assert.Equal(t, 29, Percent(29, 100))
	assert.Equal(t, 57, Percent(57, 100))
	assert.Equal(t, 58, Percent(58, 100))
	assert.Equal(t, 29, Percent(0.29, 1))
	assert.Equal(t, 99, Percent(99.99, 100))
	assert.Equal(t, 100, Percent(250, 100))
	assert.Equal(t, "progress-0.png", ProgressImageName(-3))
	assert.Equal(t, "progress-100.png", ProgressImageName(140))
	assert.Equal(t, "progress-29.png", ProgressImageName(Percent(29, 100)))
}

func TestAlphaScenario(t *testing.T) {
	s, m, events := newTestService(t)

	created := mustCreate(t, s, "Alpha", 100)
	assert.Equal(t, DefaultCurrency, created.Currency)
	assert.Equal(t, float64(0), created.Current)
	assert.Equal(t, m.Sent[0].ID, created.MessageID)

	res, err := s.Add(guildA, AddInput{Name: "alpha", Amount: 40, DonorID: "42"})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Percent)
	assert.False(t, res.GoalReached)
	assert.True(t, res.CardUpdated)
	assert.True(t, res.Announced)

	announce := m.Sent[len(m.Sent)-1].Data.Content
	assert.Equal(t, "🎉 <@42> donated **$40** to the **Alpha Goal!** 🎉", announce)

	res, err = s.Add(guildA, AddInput{Name: "Alpha", Amount: 100, Announce: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, float64(100), res.Tracker.Current)
	assert.Equal(t, 100, res.Percent)
	assert.True(t, res.GoalReached)
	assert.False(t, res.Announced)

	stored, ok := s.Get(guildA, "ALPHA")
	require.True(t, ok)
	assert.Equal(t, float64(100), stored.Current)

	assert.Equal(t, []string{"tracker/created", "tracker/donation", "tracker/donation"}, events.topics)
}

func TestAddValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	mustCreate(t, s, "Alpha", 100)

	_, err := s.Add(guildA, AddInput{Name: "Alpha", Amount: 0})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = s.Add(guildA, AddInput{Name: "Beta", Amount: 5})
	require.Error(t, err)
	assert.Equal(t, "❌ Tracker **Beta** not found.", apperrors.PublicMessage(err))
}

func TestAddPersistsWhenCardEditFails(t *testing.T) {
	s, m, _ := newTestService(t)
	mustCreate(t, s, "Alpha", 100)
	m.EditErr = stderrors.New("unknown message")

	res, err := s.Add(guildA, AddInput{Name: "Alpha", Amount: 25})
	require.NoError(t, err)
	assert.False(t, res.CardUpdated)

	stored, _ := s.Get(guildA, "Alpha")
	assert.Equal(t, float64(25), stored.Current)
}

func TestCreateValidation(t *testing.T) {
	s, m, _ := newTestService(t)

	_, err := s.Create(guildA, CreateInput{Name: "Alpha", Goal: 0, ChannelID: channelA})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = s.Create(guildA, CreateInput{Name: "  ", Goal: 10, ChannelID: channelA})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = s.Create(guildA, CreateInput{Name: "Alpha", Goal: 10, ChannelID: channelA, DonateURL: "ftp://example.com"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	assert.Equal(t, 0, m.Calls())
}

func TestCreateSendFailureStoresNothing(t *testing.T) {
	s, m, _ := newTestService(t)
	m.SendErr = stderrors.New("missing permissions")

	_, err := s.Create(guildA, CreateInput{Name: "Alpha", Goal: 10, ChannelID: channelA})
	assert.True(t, apperrors.IsKind(err, apperrors.KindExternal))
	assert.Empty(t, s.List(guildA))
}

func TestCreateReplacesSameName(t *testing.T) {
	s, m, _ := newTestService(t)
	first := mustCreate(t, s, "Alpha", 100)
	mustCreate(t, s, "Beta", 50)

	second, err := s.Create(guildA, CreateInput{Name: "ALPHA", Goal: 200, Currency: "€", ChannelID: channelA})
	require.NoError(t, err)

	list := s.List(guildA)
	require.Len(t, list, 2)
	assert.Equal(t, "Beta", list[0].Name)
	assert.Equal(t, second, list[1])
	assert.Equal(t, "€", list[1].Currency)
	assert.Equal(t, []string{channelA + "/" + first.MessageID}, m.Deleted)
}

func TestEditLeavesUnsuppliedFields(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.Create(guildA, CreateInput{Name: "Alpha", Goal: 100, ChannelID: channelA, Message: "Thanks!", DonateURL: "https://ko-fi.com/x"})
	require.NoError(t, err)
	_, err = s.Add(guildA, AddInput{Name: "Alpha", Amount: 60, Announce: ptr(false)})
	require.NoError(t, err)

	res, err := s.Edit(guildA, EditInput{Name: "alpha", Goal: ptr(50.0)})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.True(t, res.CardUpdated)
	assert.Equal(t, float64(50), res.Tracker.Current)
	assert.Equal(t, "Thanks!", res.Tracker.CustomMessage)
	assert.Equal(t, "https://ko-fi.com/x", res.Tracker.DonateURL)
	assert.Equal(t, "$", res.Tracker.Currency)
	assert.Len(t, res.Changes, 2)
}

func TestEditValidatesBeforeChanging(t *testing.T) {
	s, m, _ := newTestService(t)
	mustCreate(t, s, "Alpha", 100)
	mustCreate(t, s, "Beta", 100)
	calls := m.Calls()

	_, err := s.Edit(guildA, EditInput{Name: "Alpha", NewName: ptr("beta"), Goal: ptr(10.0)})
	require.Error(t, err)
	assert.Equal(t, "❌ Another tracker named **beta** already exists.", apperrors.PublicMessage(err))

	_, err = s.Edit(guildA, EditInput{Name: "Alpha", Currency: ptr("€"), Current: ptr(-1.0)})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = s.Edit(guildA, EditInput{Name: "Gamma"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	stored, _ := s.Get(guildA, "Alpha")
	assert.Equal(t, float64(100), stored.Goal)
	assert.Equal(t, "$", stored.Currency)
	assert.Equal(t, calls, m.Calls())
}

func TestEditRenameCurrentAndDonate(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.Create(guildA, CreateInput{Name: "Alpha", Goal: 100, ChannelID: channelA, DonateURL: "https://ko-fi.com/x"})
	require.NoError(t, err)

	res, err := s.Edit(guildA, EditInput{
		Name:        "Alpha",
		NewName:     ptr("Omega"),
		Current:     ptr(150.0),
		DonateURL:   ptr("https://example.com"),
		ClearDonate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Omega", res.Tracker.Name)
	assert.Equal(t, float64(100), res.Tracker.Current)
	assert.True(t, res.Clamped)
	assert.Empty(t, res.Tracker.DonateURL, "clearing wins over a new URL")
	assert.Contains(t, res.Changes, "• Name: **Alpha** → **Omega**")

	_, ok := s.Get(guildA, "Alpha")
	assert.False(t, ok)
	_, ok = s.Get(guildA, "omega")
	assert.True(t, ok)
}

func TestEditMovesCard(t *testing.T) {
	s, m, _ := newTestService(t)
	created := mustCreate(t, s, "Alpha", 100)

	res, err := s.Edit(guildA, EditInput{Name: "Alpha", MoveTo: channelB})
	require.NoError(t, err)
	assert.Equal(t, channelB, res.Tracker.ChannelID)
	assert.NotEqual(t, created.MessageID, res.Tracker.MessageID)
	assert.Len(t, m.SentTo(channelB), 1)
	assert.Equal(t, []string{channelA + "/" + created.MessageID}, m.Deleted)
	assert.Empty(t, m.Edits)
}

func TestEditPersistsWhenCardFails(t *testing.T) {
	s, m, _ := newTestService(t)
	mustCreate(t, s, "Alpha", 100)
	m.EditErr = stderrors.New("unknown message")

	res, err := s.Edit(guildA, EditInput{Name: "Alpha", Goal: ptr(300.0)})
	require.NoError(t, err)
	assert.False(t, res.CardUpdated)

	stored, _ := s.Get(guildA, "Alpha")
	assert.Equal(t, float64(300), stored.Goal)
}

func TestRemoveAndNames(t *testing.T) {
	s, m, _ := newTestService(t)
	alpha := mustCreate(t, s, "Alpha", 100)
	mustCreate(t, s, "Alphabet", 100)
	mustCreate(t, s, "Beta", 100)

	assert.Equal(t, []string{"Alpha", "Alphabet"}, s.Names(guildA, "ALP"))
	assert.Len(t, s.Names(guildA, ""), 3)
	assert.Empty(t, s.Names("other", ""))

	removed, err := s.Remove(guildA, "alpha")
	require.NoError(t, err)
	assert.Equal(t, alpha.MessageID, removed.MessageID)
	assert.Contains(t, m.Deleted, channelA+"/"+alpha.MessageID)
	assert.Len(t, s.List(guildA), 2)

	_, err = s.Remove(guildA, "alpha")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCardLayout(t *testing.T) {
	tr := Tracker{Name: "Alpha", Goal: 100, Current: 40, Currency: "$", CustomMessage: "Help us!"}

	embed, components := Card(tr, nil)
	assert.Equal(t, "# Alpha Goal Tracker\nHelp us!", embed.Description)
	assert.Equal(t, cardColor, embed.Color)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "$100", embed.Fields[0].Value)
	assert.Equal(t, "$40", embed.Fields[1].Value)
	assert.Nil(t, embed.Image)
	assert.Nil(t, embed.Footer)
	assert.Empty(t, components)

	tr.DonateURL = "https://ko-fi.com/x"
	image := &discordgo.File{Name: "progress-40.png"}
	embed, components = Card(tr, image)
	assert.Equal(t, "attachment://progress-40.png", embed.Image.URL)
	assert.Equal(t, donateFooter, embed.Footer.Text)
	require.Len(t, components, 1)
	button := components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, discordgo.LinkButton, button.Style)
	assert.Equal(t, "https://ko-fi.com/x", button.URL)

	edit := cardEdit(Tracker{Name: "Alpha", ChannelID: channelA, MessageID: "55"}, image)
	assert.Equal(t, "55", edit.ID)
	assert.Equal(t, channelA, edit.Channel)
	assert.Empty(t, *edit.Attachments)
	assert.Len(t, edit.Files, 1)
}

func TestImagesAttachment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "progress-40.png"), pngHeader, 0o644))
	images := NewImages(dir)

	file := images.Attachment(40)
	require.NotNil(t, file)
	assert.Equal(t, "progress-40.png", file.Name)
	assert.Equal(t, "image/png", file.ContentType)

	assert.Nil(t, images.Attachment(41))
	assert.Nil(t, NewImages("").Attachment(40))
}

func TestListEmbed(t *testing.T) {
	var list []Tracker
	for i := 0; i < maxListRows+2; i++ {
		list = append(list, Tracker{Name: "T", Goal: 10, Current: 5, Currency: "$", ChannelID: channelA})
	}
	embed := ListEmbed(list)
	assert.Len(t, embed.Fields, maxListRows*3)
	assert.Equal(t, "$5 / $10 (50%)", embed.Fields[1].Value)
	assert.Equal(t, "…and 2 more", embed.Footer.Text)
}

func TestCurrencySuggestions(t *testing.T) {
	all := CurrencySuggestions("")
	assert.Len(t, all, len(currencySuggestions))

	euro := CurrencySuggestions("eur")
	require.Len(t, euro, 2)
	assert.Equal(t, Choice{Name: "Use “eur”", Value: "eur"}, euro[0])
	assert.Equal(t, "€", euro[1].Value)

	dollar := CurrencySuggestions("$")
	assert.Equal(t, "$", dollar[0].Value)
	for _, c := range dollar[1:] {
		assert.NotEqual(t, "$", c.Value)
	}
}
