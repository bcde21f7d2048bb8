package loop

import (
	"log"
	"sync"
	"time"

	"github.com/hpungsan/subloop/internal/player"
)

// State is a snapshot of the controller's loop window.
// Invariants: Active is true exactly when both bounds are set, and a fully
// configured window always has Start < End.
type State struct {
	Active bool     `json:"is_active"`
	Start  *float64 `json:"start_time"`
	End    *float64 `json:"end_time"`
}

// Controller tracks an optional [start, end) playback window and keeps the
// player inside it: while a window is armed, a repeating poll compares the
// playback position against the end bound and seeks back to the start
// whenever the position has crossed it. The check is level-triggered, so a
// jump that lands past the end bound is still corrected on the next tick.
type Controller struct {
	mu       sync.Mutex
	player   player.Player
	interval time.Duration
	onChange func(State)
	start    *float64
	end      *float64
	stop     chan struct{} // non-nil while polling
}

// New creates a controller over the given player. interval is the polling
// cadence used while a loop is active.
func New(p player.Player, interval time.Duration) *Controller {
	return &Controller{
		player:   p,
		interval: interval,
	}
}

// OnChange registers the state-change callback. The slot holds a single
// subscriber; registering replaces any previous one, and nil detaches it.
// The callback fires synchronously after every mutation, with the controller
// lock held: it must not call back into the controller.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns a snapshot of the current loop window.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// SetStart begins a new window at t, discarding any prior end bound and
// stopping an active loop.
func (c *Controller) SetStart(t float64) {
	c.mu.Lock()
	c.start = &t
	c.end = nil
	c.stopPollingLocked()
	c.notifyLocked()
	c.mu.Unlock()
}

// SetEnd completes the window begun by SetStart and arms the loop. The two
// bounds are normalized so the earlier one becomes the start, the player is
// seeked to it, and polling begins. Without a prior SetStart the call is
// ignored with a warning.
func (c *Controller) SetEnd(t float64) {
	c.mu.Lock()
	if c.start == nil {
		c.mu.Unlock()
		log.Printf("loop: SetEnd(%.3f) ignored, no start bound set", t)
		return
	}
	lo, hi := normalize(*c.start, t)
	c.armLocked(lo, hi)
	c.mu.Unlock()
}

// SetLoop arms a loop over [a, b) directly from any state, normalizing the
// bounds the same way SetEnd does.
func (c *Controller) SetLoop(a, b float64) {
	c.mu.Lock()
	lo, hi := normalize(a, b)
	c.armLocked(lo, hi)
	c.mu.Unlock()
}

// Clear drops both bounds and stops polling.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.start = nil
	c.end = nil
	c.stopPollingLocked()
	c.notifyLocked()
	c.mu.Unlock()
}

// Destroy stops polling and detaches the subscriber. The controller is not
// expected to be used afterwards, though Clear remains safe to call.
func (c *Controller) Destroy() {
	c.mu.Lock()
	c.stopPollingLocked()
	c.onChange = nil
	c.mu.Unlock()
}

// armLocked installs a normalized window, seeks to its start, and starts
// polling. Seek failure (player gone) is deliberately not surfaced: the
// window state stands and the next tick retries against the player.
func (c *Controller) armLocked(lo, hi float64) {
	c.start = &lo
	c.end = &hi
	c.startPollingLocked()
	c.player.SeekTo(lo)
	c.notifyLocked()
}

// startPollingLocked launches the polling goroutine, replacing any prior one.
func (c *Controller) startPollingLocked() {
	c.stopPollingLocked()
	stop := make(chan struct{})
	c.stop = stop

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

// stopPollingLocked cancels the polling goroutine if one is running.
func (c *Controller) stopPollingLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// tick runs one poll: if playback has reached or passed the end bound, seek
// back to the start. The mutex is held across the player calls so a window
// cleared mid-tick can never emit a late seek.
func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.start == nil || c.end == nil {
		return
	}
	if c.player.CurrentTime() >= *c.end {
		c.player.SeekTo(*c.start)
	}
}

// notifyLocked invokes the subscriber with a snapshot taken after the
// mutation. No subscriber is a no-op.
func (c *Controller) notifyLocked() {
	if c.onChange != nil {
		c.onChange(c.stateLocked())
	}
}

func (c *Controller) stateLocked() State {
	s := State{Active: c.start != nil && c.end != nil}
	if c.start != nil {
		v := *c.start
		s.Start = &v
	}
	if c.end != nil {
		v := *c.end
		s.End = &v
	}
	return s
}

// normalize orders a window's bounds so the loop start is always the earlier
// time, making SetStart/SetEnd order-independent.
func normalize(a, b float64) (float64, float64) {
	if a <= b {
		return a, b
	}
	return b, a
}
