// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	assert.Equal(t, "def", ParseString("CHESS_A2A_TEST_UNSET", "def"))
	t.Setenv("CHESS_A2A_TEST_STR", "")
	assert.Equal(t, "def", ParseString("CHESS_A2A_TEST_STR", "def"), "empty keeps default")
	t.Setenv("CHESS_A2A_TEST_STR", "value")
	assert.Equal(t, "value", ParseString("CHESS_A2A_TEST_STR", "def"))
}

func TestParseInt(t *testing.T) {
	t.Setenv("CHESS_A2A_TEST_INT", "17")
	assert.Equal(t, 17, ParseInt("CHESS_A2A_TEST_INT", 1))
	t.Setenv("CHESS_A2A_TEST_INT", "seventeen")
	assert.Equal(t, 1, ParseInt("CHESS_A2A_TEST_INT", 1))
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true}, {"1", true}, {"YES", true},
		{"false", false}, {"0", false}, {"no", false},
		{"maybe", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CHESS_A2A_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, ParseBool("CHESS_A2A_TEST_BOOL", true))
		})
	}
}

func TestParseDurationAndFloat(t *testing.T) {
	t.Setenv("CHESS_A2A_TEST_DUR", "750ms")
	assert.Equal(t, 750*time.Millisecond, ParseDuration("CHESS_A2A_TEST_DUR", time.Second))
	t.Setenv("CHESS_A2A_TEST_DUR", "750")
	assert.Equal(t, time.Second, ParseDuration("CHESS_A2A_TEST_DUR", time.Second))

	t.Setenv("CHESS_A2A_TEST_FLOAT", "0.25")
	assert.InDelta(t, 0.25, ParseFloat("CHESS_A2A_TEST_FLOAT", 1), 1e-9)
}

func TestParseStringList(t *testing.T) {
	assert.Equal(t, []string{"a"}, ParseStringList("CHESS_A2A_TEST_UNSET", []string{"a"}))
	t.Setenv("CHESS_A2A_TEST_LIST", " x, y ,,z ")
	assert.Equal(t, []string{"x", "y", "z"}, ParseStringList("CHESS_A2A_TEST_LIST", nil))
}
