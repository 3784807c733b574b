package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/models"
)

func TestApply_SelectChannelDropsMessages(t *testing.T) {
	s := New()
	s = Apply(s, LoadMessages{Messages: []models.Message{{ID: "1"}, {ID: "2"}}})
	require.Len(t, s.Messages, 2)

	s = Apply(s, SelectChannel{ChannelID: "100"})
	assert.Equal(t, "100", s.SelectedChannel)
	assert.Empty(t, s.Messages)
}

func TestApply_SelectSameChannelKeepsMessages(t *testing.T) {
	s := New()
	s = Apply(s, LoadMessages{Messages: []models.Message{{ID: "1"}}})

	s = Apply(s, SelectChannel{ChannelID: models.TerminalChannelID})
	assert.Len(t, s.Messages, 1)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	before := New()
	before = Apply(before, LoadConfig{Config: map[string]any{"a": 1}})

	after := Apply(before, ToggleNode{Path: "$.a"})
	assert.False(t, before.Expand["$.a"])
	assert.True(t, after.Expand["$.a"])

	after2 := Apply(before, AppendMessage{Message: models.Message{ID: "x"}})
	assert.Empty(t, before.Messages)
	assert.Len(t, after2.Messages, 1)
}

func TestApply_ToggleTwiceRestores(t *testing.T) {
	s := New()
	s = Apply(s, ToggleNode{Path: "$.a"})
	s = Apply(s, ToggleNode{Path: "$.a"})
	assert.False(t, s.Expand["$.a"])
	assert.True(t, s.Expand["$"])
}

func TestApply_LoadConfigResetsExpansion(t *testing.T) {
	s := New()
	s = Apply(s, ToggleNode{Path: "$.discord"})
	s = Apply(s, LoadConfig{Config: map[string]any{}})
	assert.Equal(t, map[string]bool{"$": true}, s.Expand)
}

func TestAppState_Serializable(t *testing.T) {
	s := New()
	s = Apply(s, LoadStatus{Status: models.GatewayStatus{Online: true, Version: "1.2.3"}})
	s = Apply(s, Fail{Message: "probe failed"})

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var restored AppState
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, s.View, restored.View)
	assert.Equal(t, "1.2.3", restored.Status.Version)
	assert.Equal(t, "probe failed", restored.LastError)
}
