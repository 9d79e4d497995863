package striker

import (
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord/discordtest"
	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild   = "900000000000000001"
	testChannel = "800000000000000001"
	testEnvName = "TEST_STRIKE_LOG_CHANNEL"
)

type recordedEvent struct {
	topic   string
	payload interface{}
}

type eventRecorder struct {
	events []recordedEvent
}

func (e *eventRecorder) PublishEvent(topic string, payload interface{}) {
	e.events = append(e.events, recordedEvent{topic, payload})
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	t.Setenv(testEnvName, "")
	return NewService(store.NewFileBackend(t.TempDir()), []string{testEnvName})
}

func newTestRecorder(t *testing.T) (*Recorder, *Service, *discordtest.Messenger, *eventRecorder) {
	t.Helper()
	svc := newTestService(t)
	m := discordtest.New()
	events := &eventRecorder{}
	launcher := NewLauncher(svc, m, events)
	r := NewRecorder(svc, m, launcher, events)
	r.now = func() time.Time { return base }
	return r, svc, m, events
}

func TestKeyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "kira", Key("  KiRa "))
	assert.Equal(t, Key("ÉLAN"), Key("élan"))
}

func TestChiefLookupDoesNotPersist(t *testing.T) {
	svc := newTestService(t)

	c := svc.Chief("  Ghost ")
	assert.Equal(t, "Ghost", c.Name)
	assert.Empty(t, c.Strikes)
	assert.Empty(t, c.Warnings)
	assert.Empty(t, svc.Summaries())
}

func TestKiraScenario(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddInfraction(KindStrike, "Kira", "R1", "42", base)
	require.NoError(t, err)
	_, err = svc.AddInfraction(KindWarning, "kira", "R2", "43", base.Add(time.Minute))
	require.NoError(t, err)

	c := svc.Chief("KIRA")
	assert.Equal(t, "Kira", c.Name)
	require.Len(t, c.Strikes, 1)
	require.Len(t, c.Warnings, 1)
	assert.Equal(t, "43", c.Warnings[0].SentBy)

	page := Paginate(c, DefaultPageBudget)[0]
	assert.Contains(t, page, "**__Strikes__**")
	assert.Contains(t, page, "> R1")
	assert.Contains(t, page, "**__Warnings__**")
	assert.Contains(t, page, "> R2")
}

func TestAddInfractionValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddInfraction(KindStrike, "   ", "r", "1", base)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.AddInfraction(Kind("ban"), "Kira", "r", "1", base)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.AddInfraction(KindStrike, strings.Repeat("x", MaxChiefNameLength+1), "r", "1", base)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Empty(t, svc.Summaries())

	_, err = svc.AddInfraction(KindStrike, strings.Repeat("x", MaxChiefNameLength), "r", "1", base)
	assert.NoError(t, err)
}

func TestPagerChiefResolvesHashedKey(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.AddInfraction(KindWarning, "Kira", "late", "1", base)
	require.NoError(t, err)

	assert.Equal(t, "Kira", svc.PagerChief("kira").Name)
	assert.Equal(t, "Kira", svc.PagerChief(hashKey("kira")).Name)
	assert.Len(t, svc.PagerChief(hashKey("kira")).Warnings, 1)
	assert.Empty(t, svc.PagerChief(hashKey("nobody")).Warnings)
}

func TestSummariesOrder(t *testing.T) {
	svc := newTestService(t)
	add := func(kind Kind, name string) {
		_, err := svc.AddInfraction(kind, name, "r", "1", base)
		require.NoError(t, err)
	}
	add(KindStrike, "bravo")
	add(KindStrike, "Alpha")
	add(KindWarning, "Charlie")
	add(KindStrike, "Charlie")

	rows := svc.Summaries()
	require.Len(t, rows, 3)
	assert.Equal(t, Summary{Chief: "Charlie", Strikes: 1, Warnings: 1, Total: 2}, rows[0])
	assert.Equal(t, "Alpha", rows[1].Chief)
	assert.Equal(t, "bravo", rows[2].Chief)
}

func TestLogChannelResolution(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.LogChannel(testGuild)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfiguration))

	t.Setenv(testEnvName, "700000000000000001")
	id, err := svc.LogChannel(testGuild)
	require.NoError(t, err)
	assert.Equal(t, "700000000000000001", id)

	require.NoError(t, svc.SetLogChannel(testGuild, testChannel))
	id, err = svc.LogChannel(testGuild)
	require.NoError(t, err)
	assert.Equal(t, testChannel, id, "guild config wins over env")

	id, err = svc.LogChannel("another-guild")
	require.NoError(t, err)
	assert.Equal(t, "700000000000000001", id)

	t.Setenv(testEnvName, "general")
	_, err = svc.LogChannel("another-guild")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfiguration))

	names := []string{}
	for _, src := range svc.Sources() {
		names = append(names, src.Name)
	}
	assert.Equal(t, []string{"guild config", "env:" + testEnvName}, names)
}

func TestRecordWithoutLogChannel(t *testing.T) {
	r, svc, m, events := newTestRecorder(t)

	_, err := r.Record(testGuild, KindStrike, "Kira", "R1", "42")

	assert.True(t, apperrors.IsKind(err, apperrors.KindConfiguration))
	assert.Equal(t, 0, m.Calls(), "nothing is sent")
	assert.Len(t, svc.Chief("kira").Strikes, 1, "the strike is still saved")
	require.Len(t, events.events, 1)
	assert.Equal(t, "striker/infraction", events.events[0].topic)
}

func TestRecordPostsAndRefreshesLauncher(t *testing.T) {
	r, svc, m, _ := newTestRecorder(t)
	require.NoError(t, svc.SetLogChannel(testGuild, testChannel))
	require.NoError(t, svc.setLauncher(testChannel, "old-launcher"))

	_, err := r.Record(testGuild, KindWarning, "Kira", "R2", "43")
	require.NoError(t, err)

	sent := m.SentTo(testChannel)
	require.Len(t, sent, 2)

	announcement := sent[0].Data
	assert.Equal(t, "**<@43>** added a **warning** for **Kira**.\nReason: R2", announcement.Content)
	require.Len(t, announcement.Embeds, 1)
	assert.Contains(t, announcement.Embeds[0].Description, "> R2")
	assert.Nil(t, announcement.Components, "single page has no pager")
	assert.Empty(t, announcement.AllowedMentions.Parse)

	assert.True(t, IsLauncherMessage(&discordgo.Message{Components: sent[1].Data.Components}))
	assert.Equal(t, []string{testChannel + "/old-launcher"}, m.Deleted)
	assert.Equal(t, sent[1].ID, svc.Launcher(testChannel))
}

func TestRecordSendFailure(t *testing.T) {
	r, svc, m, _ := newTestRecorder(t)
	require.NoError(t, svc.SetLogChannel(testGuild, testChannel))
	m.SendErr = stderrors.New("missing access")

	_, err := r.Record(testGuild, KindStrike, "Kira", "R1", "42")

	assert.True(t, apperrors.IsKind(err, apperrors.KindExternal))
	assert.Len(t, svc.Chief("Kira").Strikes, 1)
}

func TestLauncherPostOrRefresh(t *testing.T) {
	svc := newTestService(t)
	m := discordtest.New()
	m.DeleteErr = stderrors.New("unknown message")
	l := NewLauncher(svc, m, nil)

	first, err := l.PostOrRefresh(testChannel, LauncherOptions{Title: "Log here", Note: "Be nice"})
	require.NoError(t, err)
	assert.Equal(t, "Log here", m.Sent[0].Data.Embeds[0].Title)
	assert.Equal(t, "Be nice", m.Sent[0].Data.Embeds[0].Description)

	second, err := l.PostOrRefresh(testChannel, LauncherOptions{})
	require.NoError(t, err, "a failed delete of the old launcher is ignored")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, l.Current(testChannel))

	embed := m.Sent[1].Data.Embeds[0]
	assert.Equal(t, defaultLauncherTitle, embed.Title)
	assert.True(t, strings.HasPrefix(embed.Description, "**Strike:**"))

	row := m.Sent[1].Data.Components[0].(discordgo.ActionsRow)
	strike := row.Components[0].(discordgo.Button)
	warning := row.Components[1].(discordgo.Button)
	assert.Equal(t, "open_modal:strike", strike.CustomID)
	assert.Equal(t, "Add Strike", strike.Label)
	assert.Equal(t, "open_modal:warning", warning.CustomID)
	assert.Equal(t, "Add Warning", warning.Label)
	assert.False(t, strike.Disabled || warning.Disabled)
}

func TestIsLauncherMessage(t *testing.T) {
	assert.False(t, IsLauncherMessage(nil))
	assert.False(t, IsLauncherMessage(&discordgo.Message{Content: "hello"}))

	pager := &discordgo.Message{Components: PagerComponents("kira", 0, 2)}
	assert.False(t, IsLauncherMessage(pager))

	decoded := &discordgo.Message{Components: []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.Button{CustomID: "open_modal:strike"},
		}},
	}}
	assert.True(t, IsLauncherMessage(decoded))
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var runs int32
	for i := 0; i < 5; i++ {
		d.Schedule(testChannel, func() { atomic.AddInt32(&runs, 1) })
	}
	d.Schedule("other", func() { atomic.AddInt32(&runs, 10) })

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 11 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return d.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerSurvivesPanickingTask(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	d.Schedule(testChannel, func() { panic("refresh failed") })
	assert.Eventually(t, func() bool { return d.Pending() == 0 }, time.Second, 5*time.Millisecond)

	var runs int32
	d.Schedule(testChannel, func() { atomic.AddInt32(&runs, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var runs int32
	d.Schedule(testChannel, func() { atomic.AddInt32(&runs, 1) })
	d.Stop()
	d.Schedule(testChannel, func() { atomic.AddInt32(&runs, 1) })

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
	assert.Equal(t, 0, d.Pending())
}

func TestModalValues(t *testing.T) {
	modal := InfractionModal(KindWarning)
	assert.Equal(t, "infraction:warning", modal.CustomID)
	assert.Equal(t, "Add Warning", modal.Title)

	data := discordgo.ModalSubmitInteractionData{
		CustomID: modal.CustomID,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: InputChief, Value: "  Kira "},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: InputReason, Value: "late\n"},
			}},
		},
	}
	chief, reason := ModalValues(data)
	assert.Equal(t, "Kira", chief)
	assert.Equal(t, "late", reason)
}
