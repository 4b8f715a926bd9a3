package fire

import "sync"

// SourcedEvent tags an event with the device it came from, so one consumer
// can drive any number of controllers.
type SourcedEvent struct {
	Device DeviceID
	Event  Event
}

// Merge fans the controllers' event channels into a single stream. Events
// from one device keep their arrival order; across devices the interleaving
// is whichever source has an event ready. The merged channel closes once
// every source channel has closed, so merging zero controllers yields an
// immediately closed channel.
func Merge(controllers []*Controller) <-chan SourcedEvent {
	merged := make(chan SourcedEvent)

	var wg sync.WaitGroup
	for _, c := range controllers {
		wg.Add(1)
		go func(id DeviceID, events <-chan Event) {
			defer wg.Done()
			for evt := range events {
				merged <- SourcedEvent{Device: id, Event: evt}
			}
		}(c.ID(), c.Events())
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged
}
