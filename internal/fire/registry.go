package fire

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"
)

// ErrPortGone is returned when a port that was present during enumeration
// cannot be found again at connect time.
var ErrPortGone = errors.New("fire: port disappeared")

// DefaultEventBuffer is the per-device event channel capacity.
const DefaultEventBuffer = 100

// Registry discovers Fire controllers and attaches to all of them. Port
// enumeration goes through two swappable hooks so tests can run without a
// MIDI driver.
type Registry struct {
	log    *zap.Logger
	buffer int

	inPorts  func() []drivers.In
	outPorts func() []drivers.Out
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes the registry's and its controllers' logging.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithEventBuffer overrides the per-device event channel capacity.
func WithEventBuffer(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.buffer = n
		}
	}
}

// withPortSources replaces the transport enumeration, for tests.
func withPortSources(ins func() []drivers.In, outs func() []drivers.Out) Option {
	return func(r *Registry) {
		r.inPorts = ins
		r.outPorts = outs
	}
}

// NewRegistry returns a registry backed by the process-wide MIDI driver.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:      zap.NewNop(),
		buffer:   DefaultEventBuffer,
		inPorts:  func() []drivers.In { return midi.GetInPorts() },
		outPorts: func() []drivers.Out { return midi.GetOutPorts() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InPortNames lists the advertised names of all input ports.
func (r *Registry) InPortNames() []string {
	ins := r.inPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// OutPortNames lists the advertised names of all output ports.
func (r *Registry) OutPortNames() []string {
	outs := r.outPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// AttachAll connects to every device whose input port name starts with
// prefix. The match is case sensitive; the output port is matched to the
// input by exact name equality, never by port index, because the two
// directions may enumerate in different orders.
//
// Attach is all or nothing: if any matched port cannot be resolved and
// opened, everything attached so far is closed and the error is returned.
// Zero matches is not an error; it yields an empty slice.
func (r *Registry) AttachAll(prefix string) ([]*Controller, error) {
	// Collect the names completely before opening anything, so connect
	// never works from a half-consumed enumeration.
	var names []string
	for _, in := range r.inPorts() {
		if name := in.String(); strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}

	controllers := make([]*Controller, 0, len(names))
	for i, name := range names {
		c, err := r.attach(DeviceID(i), name)
		if err != nil {
			for _, prev := range controllers {
				prev.Close()
			}
			return nil, err
		}
		r.log.Info("attached controller",
			zap.Int("device", i),
			zap.String("port", name))
		controllers = append(controllers, c)
	}
	return controllers, nil
}

func (r *Registry) attach(id DeviceID, name string) (*Controller, error) {
	in, err := r.findIn(name)
	if err != nil {
		return nil, err
	}
	out, err := r.findOut(name)
	if err != nil {
		return nil, err
	}

	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("fire: open input %q: %w", name, err)
	}
	if err := out.Open(); err != nil {
		in.Close()
		return nil, fmt.Errorf("fire: open output %q: %w", name, err)
	}

	// The channel must exist before the listener starts so no event can be
	// produced without a receiver.
	c := &Controller{
		id:     id,
		name:   name,
		frame:  NewFrame(),
		events: make(chan Event, r.buffer),
		log:    r.log,
	}

	stop, err := in.Listen(func(msg []byte, _ int32) {
		c.deliver(msg)
	}, drivers.ListenConfig{
		SysEx: true,
		OnErr: func(err error) {
			r.log.Error("input stream error",
				zap.Int("device", int(id)),
				zap.Error(err))
		},
	})
	if err != nil {
		in.Close()
		out.Close()
		return nil, fmt.Errorf("fire: listen on %q: %w", name, err)
	}

	c.conn = &connection{in: in, out: out, stop: stop}
	return c, nil
}

// findIn re-enumerates the input ports and resolves one by exact name.
func (r *Registry) findIn(name string) (drivers.In, error) {
	for _, in := range r.inPorts() {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: input %q", ErrPortGone, name)
}

// findOut re-enumerates the output ports and resolves one by exact name.
func (r *Registry) findOut(name string) (drivers.Out, error) {
	for _, out := range r.outPorts() {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: output %q", ErrPortGone, name)
}

// CloseAll closes every controller, returning the first error seen.
func CloseAll(controllers []*Controller) error {
	var first error
	for _, c := range controllers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
