package reactive

import "sync/atomic"

var idCounter uint64

// nextID returns a process-unique id for trackers and dependency sets.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
