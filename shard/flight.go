package shard

// Call is one producer run that any number of callers may wait on.
// Its result is written once, before Done is closed.
type Call[V any] struct {
	done chan struct{}
	val  V
	err  error

	// dups counts the callers that joined after the leader.
	dups int
}

func newCall[V any]() *Call[V] {
	return &Call[V]{done: make(chan struct{})}
}

// Done is closed when the result is available.
func (c *Call[V]) Done() <-chan struct{} {
	return c.done
}

// Result returns the outcome of the run. Only valid after Done is closed.
func (c *Call[V]) Result() (V, error) {
	return c.val, c.err
}

// Dups returns how many callers joined the run. The owning shard's Mu must be held.
func (c *Call[V]) Dups() int {
	return c.dups
}
