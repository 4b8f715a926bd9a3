package fire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGridPress(t *testing.T) {
	evt, ok := Decode([]byte{0x90, 0x36 + 5, 0x64})
	require.True(t, ok)

	btn, ok := evt.(GridButton)
	require.True(t, ok)
	assert.Equal(t, GridButton{
		Index:    5,
		Row:      0,
		Col:      5,
		State:    ButtonDown,
		Velocity: 0x64,
	}, btn)
}

func TestDecodeGridRelease(t *testing.T) {
	evt, ok := Decode([]byte{0x80, 0x36, 0x00})
	require.True(t, ok)
	btn := evt.(GridButton)
	assert.Equal(t, ButtonUp, btn.State)
	assert.Equal(t, uint8(0), btn.Index)

	// Note on with zero velocity is also a release.
	evt, ok = Decode([]byte{0x90, 0x36, 0x00})
	require.True(t, ok)
	assert.Equal(t, ButtonUp, evt.(GridButton).State)
}

func TestDecodeGridGeometry(t *testing.T) {
	// Pad 19 is the fourth pad of the second row.
	evt, ok := Decode([]byte{0x90, 0x36 + 19, 0x7F})
	require.True(t, ok)
	btn := evt.(GridButton)
	assert.Equal(t, uint8(1), btn.Row)
	assert.Equal(t, uint8(3), btn.Col)

	// The last pad maps to the bottom-right corner.
	evt, ok = Decode([]byte{0x90, 0x75, 0x7F})
	require.True(t, ok)
	btn = evt.(GridButton)
	assert.Equal(t, uint8(63), btn.Index)
	assert.Equal(t, uint8(3), btn.Row)
	assert.Equal(t, uint8(15), btn.Col)
}

func TestDecodeIgnoresChannelNibble(t *testing.T) {
	evt, ok := Decode([]byte{0x93, 0x36 + 7, 0x20})
	require.True(t, ok)
	assert.Equal(t, uint8(7), evt.(GridButton).Index)
}

func TestDecodeKnob(t *testing.T) {
	evt, ok := Decode([]byte{0xB0, 0x12, 0x41})
	require.True(t, ok)
	assert.Equal(t, Knob{Number: 2, Value: 0x41}, evt)
}

func TestDecodeUnrecognized(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x90},
		{0x90, 0x36},
		{0x90, 0x36, 0x64, 0x00},        // too long
		{0x90, 0x35, 0x64},              // note below the grid
		{0x90, 0x76, 0x64},              // note above the grid
		{0xB0, 0x30, 0x64},              // CC outside the knob range
		{0xA0, 0x36, 0x64},              // aftertouch
		{0xF0, 0x47, 0xF7},              // sysex
		{0xC0, 0x01, 0x00},              // program change
	}
	for _, msg := range cases {
		evt, ok := Decode(msg)
		assert.False(t, ok, "msg % X should not decode", msg)
		assert.Nil(t, evt)
	}
}

func TestButtonStateString(t *testing.T) {
	assert.Equal(t, "down", ButtonDown.String())
	assert.Equal(t, "up", ButtonUp.String())
}
