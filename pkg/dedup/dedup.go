package dedup

import "time"

// DefaultCooldown is how long an identical repeat decode is suppressed
const DefaultCooldown = 3000 * time.Millisecond

// Deduplicator suppresses an exact repeat of the most recently accepted text.
// Every acceptance schedules a clear of the last text one cooldown later,
// whichever text is held by then, so an earlier code's clear also releases a
// later one. Clears are applied lazily on the next Accept.
type Deduplicator struct {
	cooldown time.Duration
	last     string
	held     bool
	clears   []time.Time // pending clear deadlines, ascending
}

// New creates a Deduplicator. A non-positive cooldown uses DefaultCooldown.
func New(cooldown time.Duration) *Deduplicator {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Deduplicator{cooldown: cooldown}
}

// Accept reports whether text should be let through at now. An accepted text
// becomes the new last text and schedules a clear one cooldown later.
func (d *Deduplicator) Accept(text string, now time.Time) bool {
	d.expire(now)

	if d.held && text == d.last {
		return false
	}
	d.last = text
	d.held = true
	d.clears = append(d.clears, now.Add(d.cooldown))
	return true
}

// expire fires every clear whose deadline has passed
func (d *Deduplicator) expire(now time.Time) {
	n := 0
	for n < len(d.clears) && !d.clears[n].After(now) {
		n++
	}
	if n == 0 {
		return
	}
	d.clears = d.clears[n:]
	d.last = ""
	d.held = false
}

// Reset forgets the last accepted text and any pending clears
func (d *Deduplicator) Reset() {
	d.last = ""
	d.held = false
	d.clears = nil
}

// Cooldown returns the configured window
func (d *Deduplicator) Cooldown() time.Duration {
	return d.cooldown
}
