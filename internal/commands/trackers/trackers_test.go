package trackers

import (
	"testing"

	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/stretchr/testify/assert"
)

func TestAddReply(t *testing.T) {
	res := tracker.AddResult{
		Tracker:     tracker.Tracker{Name: "Alpha", Goal: 100, Current: 40, Currency: "$"},
		Amount:      40,
		Percent:     40,
		CardUpdated: true,
	}
	assert.Equal(t, "✅ Added $40 to **Alpha**. Now at $40 / $100 (40%).", addReply(res, ""))

	res.Tracker.Current = 100
	res.Percent = 100
	res.GoalReached = true
	res.CardUpdated = false
	assert.Equal(t,
		"✅ Added $40 to **Alpha**. Now at $100 / $100 (100%). 🎉 Goal reached!\n📝 thanks"+
			"\n⚠️ Totals saved, but I could not edit the original card (maybe deleted or missing permissions).",
		addReply(res, "thanks"))
}

func TestEditReply(t *testing.T) {
	res := tracker.EditResult{Tracker: tracker.Tracker{Name: "Beta"}, CardUpdated: true}
	assert.Equal(t, "✅ **Beta** updated.\nNo changes provided — nothing to update.", editReply(res))

	res.Changes = []string{"• Goal: 100 → 200", "• Currency: **$** → **€**"}
	assert.Equal(t, "✅ **Beta** updated.\n• Goal: 100 → 200\n• Currency: **$** → **€**", editReply(res))

	res.CardUpdated = false
	assert.Contains(t, editReply(res), "⚠️ Saved changes to storage")
}

func TestHelpEmbedCoversEveryCommand(t *testing.T) {
	embed := HelpEmbed()
	var names []string
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	for _, want := range []string{"/start", "/add", "/list", "/remove", "/edit", "/strikes", "/strike-launcher", "/strikechannel", "/help"} {
		assert.Contains(t, names, want)
	}
}

func TestCommandDefinitions(t *testing.T) {
	start := createStartCommand().ToApplicationCommand()
	assert.Equal(t, "start", start.Name)
	assert.True(t, start.Options[0].Required)
	assert.True(t, start.Options[2].Autocomplete, "currency autocompletes")

	edit := createEditCommand().ToApplicationCommand()
	assert.Len(t, edit.Options, 9)
	assert.Equal(t, "move_to_channel", edit.Options[8].Name)
}
