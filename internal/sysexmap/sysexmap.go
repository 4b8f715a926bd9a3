// Package sysexmap holds the generic sysex field-descriptor model: a JSON
// document naming offset/bitmask/type entries for an arbitrary controller
// dialect.
//
// Only loading and structural validation are implemented. The model is not
// consumed by the runtime decode path; a descriptor interpreter producing
// events from these entries would be a separate component layered on top of
// the fire package's contracts.
package sysexmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("sysexmap: invalid descriptor")

// TypeEntry describes a typed field region inside a sysex message.
type TypeEntry struct {
	Name        string  `json:"name"`
	FirstOffset uint32  `json:"first_offset_start"`
	LastOffset  uint32  `json:"last_offset_start"`
	Type        string  `json:"type"`
	Stride      *uint32 `json:"stride,omitempty"`
}

// ValueEntry describes one named value extracted from a field region,
// including how to present it to a human.
type ValueEntry struct {
	Name           string   `json:"name"`
	FirstOffset    uint32   `json:"first_offset_start"`
	LastOffset     uint32   `json:"last_offset_start"`
	Bitmask        uint32   `json:"bitmask"`
	RangeLow       uint32   `json:"discrete_range_low"`
	RangeHigh      uint32   `json:"discrete_range_high"`
	HumanValueList  []string `json:"human_value_list,omitempty"`
	HumanValueBase  *int32   `json:"human_value_base,omitempty"`
	HumanValueUnits string   `json:"human_value_units,omitempty"`
}

// Map is one controller dialect's full descriptor document.
type Map struct {
	PortNames       []string              `json:"port_names"`
	IgnorePortNames []string              `json:"ignore_port_names"`
	TypeEntries     map[string]TypeEntry  `json:"type_entries"`
	ValueEntries    map[string]ValueEntry `json:"value_entries"`
}

// Load reads and validates a descriptor document from disk.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sysexmap: parse %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the document's structural invariants. It does not judge
// whether the offsets describe a real device.
func (m *Map) Validate() error {
	if len(m.PortNames) == 0 {
		return fmt.Errorf("%w: no port names", ErrInvalid)
	}
	for _, name := range sortedKeys(m.TypeEntries) {
		e := m.TypeEntries[name]
		if e.Name == "" {
			return fmt.Errorf("%w: type entry %q: empty name", ErrInvalid, name)
		}
		if e.LastOffset < e.FirstOffset {
			return fmt.Errorf("%w: type entry %q: offsets reversed", ErrInvalid, name)
		}
		if e.Type == "" {
			return fmt.Errorf("%w: type entry %q: empty type", ErrInvalid, name)
		}
		if e.Stride != nil && *e.Stride == 0 {
			return fmt.Errorf("%w: type entry %q: zero stride", ErrInvalid, name)
		}
	}
	for _, name := range sortedKeys(m.ValueEntries) {
		e := m.ValueEntries[name]
		if e.Name == "" {
			return fmt.Errorf("%w: value entry %q: empty name", ErrInvalid, name)
		}
		if e.LastOffset < e.FirstOffset {
			return fmt.Errorf("%w: value entry %q: offsets reversed", ErrInvalid, name)
		}
		if e.Bitmask == 0 {
			return fmt.Errorf("%w: value entry %q: zero bitmask", ErrInvalid, name)
		}
		if e.RangeHigh < e.RangeLow {
			return fmt.Errorf("%w: value entry %q: discrete range reversed", ErrInvalid, name)
		}
		if n := len(e.HumanValueList); n > 0 {
			want := int(e.RangeHigh-e.RangeLow) + 1
			if n != want {
				return fmt.Errorf("%w: value entry %q: human value list has %d entries for a range of %d",
					ErrInvalid, name, n, want)
			}
		}
	}
	return nil
}

// Matches reports whether a port name is covered by the descriptor: listed
// in PortNames and not excluded by IgnorePortNames.
func (m *Map) Matches(portName string) bool {
	for _, ignore := range m.IgnorePortNames {
		if portName == ignore {
			return false
		}
	}
	for _, name := range m.PortNames {
		if portName == name {
			return true
		}
	}
	return false
}

func sortedKeys[V any](entries map[string]V) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
