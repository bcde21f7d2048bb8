package player

// Player is the narrow media-control surface the loop controller depends on:
// seek and position, nothing else. Implementations report a missing player
// as a false/zero return rather than an error.
type Player interface {
	// SeekTo moves playback to the given position in seconds.
	// Returns false when no player is reachable.
	SeekTo(seconds float64) bool

	// CurrentTime returns the current playback position in seconds,
	// or 0 when no player is reachable.
	CurrentTime() float64
}
