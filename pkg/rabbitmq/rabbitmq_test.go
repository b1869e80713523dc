package rabbitmq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("listing.deleted", map[string]string{"id": "42"})
	require.NoError(t, err)

	assert.Equal(t, "listing.deleted", evt.Type)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.JSONEq(t, `{"id":"42"}`, string(evt.Data))

	body, err := json.Marshal(evt)
	require.NoError(t, err)
	var decoded Event
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, evt.Type, decoded.Type)
}

func TestNewEvent_Unmarshalable(t *testing.T) {
	_, err := NewEvent("broken", make(chan int))
	assert.Error(t, err)
}

func TestPublishEvent_NoChannel(t *testing.T) {
	c := &Client{queue: DefaultQueue}
	assert.Error(t, c.PublishEvent("client.created", nil))
}
