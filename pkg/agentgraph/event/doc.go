// Package event publishes graph change notifications.
//
// The graph store emits one Event per committed mutation, after its lock is
// released, so a subscriber always observes a consistent graph when it reads
// back from the store. Delivery is synchronous and ordered: subscribers run
// on the publishing goroutine in the order they subscribed.
//
//	bus := event.NewBus(event.BusConfig{})
//	bus.Subscribe([]string{event.NodeRemoved}, func(ctx context.Context, e event.Event) error {
//	    log.Printf("node %s removed with edges %v", e.NodeID, e.Removed)
//	    return nil
//	})
package event
