package session

import (
	"sync"
	"time"
)

// Continuation is the single pending "start the next hand" action.
//
// Arm, Disarm and Accept are called from the event loop only. The timer goroutine never
// touches session state: it hands its generation to post, and the loop calls Accept to
// learn whether that fire is still the live one. Arm and Disarm both bump the generation,
// so any fire already in flight for an older schedule is rejected.
type Continuation struct {
	delay time.Duration
	post  func(gen uint64)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	armed bool
}

func NewContinuation(delay time.Duration, post func(gen uint64)) *Continuation {
	return &Continuation{delay: delay, post: post}
}

// Arm schedules a fire after the delay, replacing any schedule that has not fired yet.
func (c *Continuation) Arm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	c.armed = true
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() { c.post(gen) })
}

// Disarm cancels a pending fire. It is a no-op if nothing is armed.
func (c *Continuation) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	c.armed = false
}

// Accept reports whether a fire for gen should act. It returns true at most once per Arm,
// and leaves the continuation unarmed.
func (c *Continuation) Accept(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.armed || gen != c.gen {
		return false
	}
	c.armed = false
	c.timer = nil
	return true
}

func (c *Continuation) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

func (c *Continuation) Delay() time.Duration { return c.delay }

func (c *Continuation) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
