// Package fire drives Akai Fire grid controllers over raw MIDI.
//
// A Registry discovers attached units by port-name prefix and hands back one
// Controller per physical device. Each Controller owns the in/out transport
// handles and a Frame, the full-grid LED sysex message that is mutated in
// place and sent as one write. Input traffic is decoded into typed events
// and delivered on a per-device channel; Merge combines the channels of all
// attached devices into a single stream for the consuming loop.
package fire

// Pad grid geometry. The Fire exposes its 64 pads as 4 rows of 16.
const (
	GridRows = 4
	GridCols = 16
	NumPads  = GridRows * GridCols
)

// DefaultPortPrefix matches the port names the Fire advertises on all
// platforms we have seen.
const DefaultPortPrefix = "FL STUDIO FIRE"
