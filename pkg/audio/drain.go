package audio

// Drain reads from ch until the channel is closed, discarding all values.
// Use this to prevent goroutine leaks when a [Source] must be torn down
// before its chunk stream has been consumed.
func Drain[T any](ch <-chan T) {
	for range ch {
	}
}
