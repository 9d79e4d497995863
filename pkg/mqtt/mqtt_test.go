package mqtt

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinTopic(t *testing.T) {
	assert.Equal(t, "striketracker/tracker/created", joinTopic("striketracker", "tracker/created"))
	assert.Equal(t, "striketracker/striker/launcher", joinTopic("striketracker", "/striker/launcher/"))
	assert.Equal(t, "tracker/created", joinTopic("", "tracker/created"))
}

func TestPublishEventWhileDisconnected(t *testing.T) {
	var mc *MqttCommunicator
	assert.False(t, mc.IsConnected())
	assert.NotPanics(t, func() { mc.PublishEvent("tracker/created", "x") })

	assert.NotPanics(t, func() { (&MqttCommunicator{prefix: "p"}).PublishEvent("tracker/created", "x") })
}

func TestNewEvent(t *testing.T) {
	e := newEvent("striker/infraction", map[string]string{"chief": "Kira"})
	assert.Len(t, e.ID, 36)
	assert.Equal(t, "striker/infraction", e.Topic)
	assert.False(t, e.At.IsZero())
}

func TestHandleRequest(t *testing.T) {
	var got map[string]interface{}
	topic, resp, err := handleRequest("trackers", []byte(`{"correlationId":"abc","payload":{"guildId":"1"}}`),
		func(payload map[string]interface{}) (interface{}, error) {
			got = payload
			return []string{"Alpha"}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "response/trackers/abc", topic)
	assert.Equal(t, "abc", resp.CorrelationID)
	assert.Equal(t, []string{"Alpha"}, resp.Data)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "1", got["guildId"])
	assert.Equal(t, "trackers", got["_topic"])
}

func TestHandleRequestError(t *testing.T) {
	_, resp, err := handleRequest("trackers", []byte(`{"correlationId":"abc"}`),
		func(map[string]interface{}) (interface{}, error) {
			return nil, stderrors.New("guildId is required")
		})

	require.NoError(t, err)
	assert.Equal(t, "guildId is required", resp.Error)
	assert.Nil(t, resp.Data)

	_, _, err = handleRequest("trackers", []byte(`not json`), nil)
	assert.Error(t, err)
}
