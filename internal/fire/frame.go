package fire

import (
	"errors"
	"fmt"
)

// Sysex framing for the "write pad LEDs" message.
// F0 47 7F 43 65 <lenHi> <lenLo> <idx r g b>*64 F7
const (
	sysexStart = 0xF0
	sysexEnd   = 0xF7

	manufacturerAkai = 0x47
	deviceAllCall    = 0x7F
	productFire      = 0x43
	opWritePadLEDs   = 0x65
)

const (
	headerLen = 7
	recordLen = 4
	frameLen  = headerLen + recordLen*NumPads + 1

	// maxChannel is the largest value a color channel can carry; sysex
	// payload bytes must keep the high bit clear.
	maxChannel = 0x7F
)

// ErrIndexRange is returned when a pad index falls outside the grid.
var ErrIndexRange = errors.New("fire: pad index out of range")

// Frame is the outbound LED message for the whole pad grid.
//
// The header, the per-pad index bytes and the terminator are written once by
// NewFrame and never touched again; SetLED only overwrites the three color
// bytes of one record. The payload length field is 14 bits split across two
// 7-bit bytes, high bits first.
type Frame struct {
	buf [frameLen]byte
}

// NewFrame returns a frame with the fixed layout written and every pad off.
func NewFrame() *Frame {
	f := &Frame{}
	payload := recordLen * NumPads
	copy(f.buf[:headerLen], []byte{
		sysexStart,
		manufacturerAkai,
		deviceAllCall,
		productFire,
		opWritePadLEDs,
		byte(payload>>7) & 0x7F,
		byte(payload) & 0x7F,
	})
	for i := 0; i < NumPads; i++ {
		f.buf[headerLen+recordLen*i] = byte(i)
	}
	f.buf[frameLen-1] = sysexEnd
	return f
}

// SetLED overwrites the color of one pad. Channels are clamped to the 7-bit
// range the wire format allows.
func (f *Frame) SetLED(index int, r, g, b uint8) error {
	if index < 0 || index >= NumPads {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	off := headerLen + recordLen*index
	f.buf[off+1] = clamp7(r)
	f.buf[off+2] = clamp7(g)
	f.buf[off+3] = clamp7(b)
	return nil
}

// SetAll paints every pad the same color.
func (f *Frame) SetAll(r, g, b uint8) {
	for i := 0; i < NumPads; i++ {
		f.SetLED(i, r, g, b)
	}
}

// Clear turns every pad off.
func (f *Frame) Clear() {
	f.SetAll(0, 0, 0)
}

// SetColorCube paints the startup test pattern: the pad index is decomposed
// into coordinates of a 4x4x4 cube (x = i%4, y = i/16, z = (i%16)/4) and
// each coordinate is scaled into a color channel.
func (f *Frame) SetColorCube() {
	for i := 0; i < NumPads; i++ {
		x := uint8(i % 4)
		y := uint8(i / 16)
		z := uint8((i % 16) / 4)
		f.SetLED(i, x*0x20, y*0x20, z*0x20)
	}
}

// Bytes returns the complete sysex message. The slice aliases the frame's
// internal buffer; callers must not modify it.
func (f *Frame) Bytes() []byte {
	return f.buf[:]
}

// Len returns the size of the encoded message.
func (f *Frame) Len() int {
	return frameLen
}

func clamp7(v uint8) uint8 {
	if v > maxChannel {
		return maxChannel
	}
	return v
}
