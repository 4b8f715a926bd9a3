package fire

import (
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Fake transport ports so the registry and controller tests never need a
// real MIDI driver.

type fakePort struct {
	name   string
	number int
	open   bool
	closed int
}

func (p *fakePort) Open() error            { p.open = true; return nil }
func (p *fakePort) Close() error           { p.open = false; p.closed++; return nil }
func (p *fakePort) IsOpen() bool           { return p.open }
func (p *fakePort) Number() int            { return p.number }
func (p *fakePort) String() string         { return p.name }
func (p *fakePort) Underlying() interface{} { return nil }

type fakeIn struct {
	fakePort
	onMsg   func(msg []byte, milliseconds int32)
	stopped bool
}

func (p *fakeIn) Listen(onMsg func(msg []byte, milliseconds int32), cfg drivers.ListenConfig) (func(), error) {
	p.onMsg = onMsg
	return func() { p.stopped = true }, nil
}

// feed injects a raw message as if the driver callback had fired.
func (p *fakeIn) feed(msg []byte) {
	if p.onMsg != nil {
		p.onMsg(msg, 0)
	}
}

type fakeOut struct {
	fakePort
	sent    [][]byte
	sendErr error
}

func (p *fakeOut) Send(data []byte) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, append([]byte(nil), data...))
	return nil
}

func fakeSources(ins []*fakeIn, outs []*fakeOut) Option {
	return withPortSources(
		func() []drivers.In {
			ports := make([]drivers.In, len(ins))
			for i, p := range ins {
				ports[i] = p
			}
			return ports
		},
		func() []drivers.Out {
			ports := make([]drivers.Out, len(outs))
			for i, p := range outs {
				ports[i] = p
			}
			return ports
		},
	)
}
