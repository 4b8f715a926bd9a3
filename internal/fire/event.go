package fire

// MIDI status bytes the Fire emits. The channel nibble is masked off; the
// device has been seen using different channels across firmware revisions.
const (
	statusNoteOff       = 0x80
	statusNoteOn        = 0x90
	statusControlChange = 0xB0
	statusCodeMask      = 0xF0
)

// Pad presses arrive as note on/off with the note number offset from the
// linear pad index. Rotary knobs arrive as control changes.
const (
	padNoteBase = 0x36

	knobCCBase = 0x10
	numKnobs   = 4
)

// ButtonState says whether a pad went down or came back up.
type ButtonState uint8

const (
	ButtonUp ButtonState = iota
	ButtonDown
)

func (s ButtonState) String() string {
	if s == ButtonDown {
		return "down"
	}
	return "up"
}

// Event is one decoded piece of controller input. It is produced by Decode
// and consumed exactly once by whoever drains the device channel.
type Event interface {
	event()
}

// GridButton is a press or release on the pad grid. Row and Col are derived
// from Index using the fixed 4x16 geometry.
type GridButton struct {
	Index    uint8
	Row      uint8
	Col      uint8
	State    ButtonState
	Velocity uint8
}

func (GridButton) event() {}

// Knob is a turn of one of the four rotary encoders (0 = volume, 1 = pan,
// 2 = filter, 3 = resonance).
type Knob struct {
	Number uint8
	Value  uint8
}

func (Knob) event() {}

// Decode parses one raw MIDI message into a typed event. The second return
// is false for anything that is not a recognized message shape: the device
// emits plenty of unrelated channel traffic, and all of it is deliberately
// absorbed here rather than surfaced as an error.
func Decode(msg []byte) (Event, bool) {
	if len(msg) != 3 {
		return nil, false
	}
	status := msg[0] & statusCodeMask
	data1 := msg[1]
	data2 := msg[2]

	switch status {
	case statusNoteOn, statusNoteOff:
		if data1 < padNoteBase || data1 >= padNoteBase+NumPads {
			return nil, false
		}
		index := data1 - padNoteBase
		state := ButtonDown
		// Note on with velocity zero is a release, per common practice.
		if status == statusNoteOff || data2 == 0 {
			state = ButtonUp
		}
		return GridButton{
			Index:    index,
			Row:      index / GridCols,
			Col:      index % GridCols,
			State:    state,
			Velocity: data2,
		}, true

	case statusControlChange:
		if data1 >= knobCCBase && data1 < knobCCBase+numKnobs {
			return Knob{Number: data1 - knobCCBase, Value: data2}, true
		}
	}

	return nil, false
}
