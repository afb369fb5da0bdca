// SPDX-License-Identifier: MIT

package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChessAgentCard(t *testing.T) {
	card := NewChessAgentCard(CardOptions{BaseURL: "http://localhost:7000/"})

	assert.Equal(t, "Chess Agent", card.Name)
	assert.Equal(t, "http://localhost:7000", card.URL)
	assert.Equal(t, "http://localhost:7000/docs", card.DocumentationURL)
	assert.Equal(t, "1.0.0", card.Version)
	assert.False(t, card.Capabilities.Streaming)
	assert.False(t, card.Capabilities.PushNotifications)
	assert.True(t, card.Capabilities.StateTransitionHistory)
	assert.Equal(t, []string{"text/plain"}, card.DefaultInputModes)
	assert.Equal(t, []string{"application/x-fen", "image/png"}, card.DefaultOutputModes)
	require.Len(t, card.Skills, 1)
	assert.Equal(t, "play_move", card.Skills[0].ID)
	assert.Equal(t, []string{"e4", "Nf3", "d5"}, card.Skills[0].Examples)

	buf, err := json.Marshal(card)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(buf, &generic))
	caps := generic["capabilities"].(map[string]any)
	assert.Equal(t, false, caps["streaming"])
	assert.Equal(t, map[string]any{"schemes": []any{"Bearer"}}, generic["authentication"])
}
