package broker

// Readiness - result of single Multiplexer wait.
type Readiness struct {
	// Listener - new connection is pending
	Listener bool
	// Slots - connections ready for reading, ordered by slot id
	Slots []*Slot
	// Woken - wait was interrupted with Multiplexer.Wake
	Woken bool
}
