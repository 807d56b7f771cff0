package scheduler

// Drain runs queued jobs on the calling goroutine.
func (loop *Loop) Drain() {
	loop.drain()
}
