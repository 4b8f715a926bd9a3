package sysexmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMap() *Map {
	stride := uint32(4)
	return &Map{
		PortNames: []string{"JUPITER-X"},
		TypeEntries: map[string]TypeEntry{
			"patch_name": {
				Name:        "patch_name",
				FirstOffset: 0x10,
				LastOffset:  0x1F,
				Type:        "ascii",
				Stride:      &stride,
			},
		},
		ValueEntries: map[string]ValueEntry{
			"osc_wave": {
				Name:        "osc_wave",
				FirstOffset: 0x20,
				LastOffset:  0x20,
				Bitmask:     0x07,
				RangeLow:    0,
				RangeHigh:   3,
				HumanValueList: []string{"saw", "square", "triangle", "noise"},
			},
		},
	}
}

func TestValidateAcceptsWellFormedMap(t *testing.T) {
	require.NoError(t, validMap().Validate())
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Map)
	}{
		{"no ports", func(m *Map) { m.PortNames = nil }},
		{"reversed type offsets", func(m *Map) {
			e := m.TypeEntries["patch_name"]
			e.FirstOffset, e.LastOffset = e.LastOffset+1, e.FirstOffset
			m.TypeEntries["patch_name"] = e
		}},
		{"empty type", func(m *Map) {
			e := m.TypeEntries["patch_name"]
			e.Type = ""
			m.TypeEntries["patch_name"] = e
		}},
		{"zero stride", func(m *Map) {
			zero := uint32(0)
			e := m.TypeEntries["patch_name"]
			e.Stride = &zero
			m.TypeEntries["patch_name"] = e
		}},
		{"zero bitmask", func(m *Map) {
			e := m.ValueEntries["osc_wave"]
			e.Bitmask = 0
			m.ValueEntries["osc_wave"] = e
		}},
		{"reversed range", func(m *Map) {
			e := m.ValueEntries["osc_wave"]
			e.RangeLow, e.RangeHigh = 3, 0
			m.ValueEntries["osc_wave"] = e
		}},
		{"human list length mismatch", func(m *Map) {
			e := m.ValueEntries["osc_wave"]
			e.HumanValueList = []string{"saw"}
			m.ValueEntries["osc_wave"] = e
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMap()
			tc.mutate(m)
			assert.ErrorIs(t, m.Validate(), ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	body := `{
		"port_names": ["JUPITER-X"],
		"ignore_port_names": ["JUPITER-X DAW CTRL"],
		"type_entries": {
			"patch_name": {
				"name": "patch_name",
				"first_offset_start": 16,
				"last_offset_start": 31,
				"type": "ascii"
			}
		},
		"value_entries": {
			"osc_wave": {
				"name": "osc_wave",
				"first_offset_start": 32,
				"last_offset_start": 32,
				"bitmask": 7,
				"discrete_range_low": 0,
				"discrete_range_high": 1,
				"human_value_list": ["saw", "square"],
				"human_value_units": "wave"
			}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.TypeEntries, 1)
	assert.Len(t, m.ValueEntries, 1)
	assert.Equal(t, uint32(7), m.ValueEntries["osc_wave"].Bitmask)
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port_names": []}`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMatches(t *testing.T) {
	m := &Map{
		PortNames:       []string{"JUPITER-X", "JUPITER-Xm"},
		IgnorePortNames: []string{"JUPITER-X DAW CTRL"},
	}
	assert.True(t, m.Matches("JUPITER-X"))
	assert.True(t, m.Matches("JUPITER-Xm"))
	assert.False(t, m.Matches("JUPITER-X DAW CTRL"))
	assert.False(t, m.Matches("FL STUDIO FIRE"))
}
