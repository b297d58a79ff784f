package main

import "time"

// idleFPS caps the frame rate while the cursor is released.
const idleFPS = 30

// frameLimiter paces frames to a target rate. It sleeps for most of the
// interval and spins for the last stretch, which holds high caps more
// precisely than sleep alone.
type frameLimiter struct {
	next time.Time
}

const spinWindow = 200 * time.Microsecond

// wait blocks until the next frame is due. A limit of zero or less disables
// pacing.
func (f *frameLimiter) wait(limit int) {
	if limit <= 0 {
		f.next = time.Time{}
		return
	}
	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}

	// Resync after a hitch instead of racing to catch up.
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
