package fire

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"
)

// DeviceID identifies one attached controller for the lifetime of the
// process. IDs are handed out sequentially from zero in attach order; they
// are not stable across restarts or re-attachment of the same hardware.
type DeviceID int

// connection bundles the live transport handles. A controller either holds
// both directions or neither; the two are released together by Close.
type connection struct {
	in   drivers.In
	out  drivers.Out
	stop func()
}

// Controller is one attached Fire unit. It owns the LED frame and the
// transport handles, and is the sending side's only writer.
//
// LED mutation and UpdateLEDs are intended to be called from a single
// consuming goroutine; the only cross-goroutine traffic is the transport
// callback feeding the event channel.
type Controller struct {
	id      DeviceID
	name    string
	frame   *Frame
	events  chan Event
	dropped atomic.Uint64
	log     *zap.Logger

	mu   sync.Mutex
	conn *connection
}

// ID returns the process-local identity assigned at attach time.
func (c *Controller) ID() DeviceID { return c.id }

// Name returns the transport port name the controller was attached through.
func (c *Controller) Name() string { return c.name }

// Events returns the receiving side of the device's event channel. The
// channel closes when the controller is closed.
func (c *Controller) Events() <-chan Event { return c.events }

// Dropped reports how many events have been discarded because the event
// channel was full.
func (c *Controller) Dropped() uint64 { return c.dropped.Load() }

// Connected reports whether the transport handles are still held.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SetLED stages one pad color in the frame. Nothing reaches the hardware
// until UpdateLEDs.
func (c *Controller) SetLED(index int, r, g, b uint8) error {
	return c.frame.SetLED(index, r, g, b)
}

// SetColorCube stages the 4x4x4 color cube test pattern.
func (c *Controller) SetColorCube() {
	c.frame.SetColorCube()
}

// ClearLEDs stages an all-off frame.
func (c *Controller) ClearLEDs() {
	c.frame.Clear()
}

// UpdateLEDs sends the whole staged frame as one sysex write. It is a no-op
// on a closed controller; send failures are returned to the caller, which
// decides whether they are fatal for its deployment.
func (c *Controller) UpdateLEDs() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	if err := c.conn.out.Send(c.frame.Bytes()); err != nil {
		return fmt.Errorf("fire: device %d: send led frame: %w", c.id, err)
	}
	return nil
}

// Close stops the input listener, releases both transport handles together
// and closes the event channel. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil

	if conn.stop != nil {
		conn.stop()
	}
	errIn := conn.in.Close()
	errOut := conn.out.Close()
	close(c.events)

	if errIn != nil {
		return fmt.Errorf("fire: device %d: close input: %w", c.id, errIn)
	}
	if errOut != nil {
		return fmt.Errorf("fire: device %d: close output: %w", c.id, errOut)
	}
	return nil
}

// dropLogEvery throttles the overflow warning so a stuck consumer does not
// also flood the log.
const dropLogEvery = 1000

// deliver runs on the transport's callback goroutine: decode one raw
// message and enqueue it without blocking. When the consumer has fallen
// behind and the channel is full, the newest event is dropped and counted
// rather than crashing or blocking the driver thread.
func (c *Controller) deliver(msg []byte) {
	evt, ok := Decode(msg)
	if !ok {
		return
	}
	select {
	case c.events <- evt:
	default:
		n := c.dropped.Add(1)
		if n == 1 || n%dropLogEvery == 0 {
			c.log.Warn("event channel full, dropping input",
				zap.Int("device", int(c.id)),
				zap.Uint64("dropped", n))
		}
	}
}
