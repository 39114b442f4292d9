/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package rtc keeps a software clock anchored to the monotonic uptime and
// resynchronized against a hardware real time clock.
//
// The clock is read lazily: a resync happens on the read path when the
// update interval has passed since the previous one, there is no background
// timer. Between resyncs the last hardware reading is extrapolated with the
// monotonic clock, which gives sub-second resolution even when the hardware
// only counts whole seconds.
package rtc

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/rtclock/abstime"
	"github.com/facebook/rtclock/servo"
)

// DefaultMinYear is the latest year hardware may report right after power on.
// Clocks anchored at or before it are not considered set.
const DefaultMinYear = 2015

// State of the clock
type State uint8

// All the states of the clock
const (
	StateUnset State = iota
	StateCalibrated
	StateSetting
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "UNSET"
	case StateCalibrated:
		return "CALIBRATED"
	case StateSetting:
		return "SETTING"
	}
	return "UNSUPPORTED"
}

// Stats is a snapshot of clock counters
type Stats struct {
	Syncs       int64
	SyncErrors  int64
	WriteErrors int64
	// LastResidual is hardware time minus extrapolated time at the last resync
	LastResidual time.Duration
	DriftPPB     float64
	ServoState   servo.State
}

// SyncEvent describes one resync
type SyncEvent struct {
	Hardware abstime.Instant
	Residual time.Duration
	// Calibrated is false for the very first anchor and right after a set
	Calibrated bool
	Err        error
}

// Option configures Clock
type Option func(*Clock)

// WithUpdateInterval sets how stale the anchor may get before a read resyncs, 0 disables
func WithUpdateInterval(d time.Duration) Option {
	return func(c *Clock) {
		c.updateInterval = d.Microseconds()
	}
}

// WithDriftServo scales extrapolation by the frequency error estimated between resyncs
func WithDriftServo(pi *servo.PI) Option {
	return func(c *Clock) {
		c.pi = pi
	}
}

// WithMinYear overrides DefaultMinYear
func WithMinYear(year int) Option {
	return func(c *Clock) {
		c.minYear = year
	}
}

// WithLogger sets logger
func WithLogger(l *log.Entry) Option {
	return func(c *Clock) {
		c.log = l
	}
}

// WithSyncHook registers a function called after every resync.
// It runs without the clock lock held and may read the clock.
func WithSyncHook(f func(SyncEvent)) Option {
	return func(c *Clock) {
		c.hook = f
	}
}

// Clock is the system clock backed by HardwareClock.
// There is one per system: construct it at start and pass it around.
type Clock struct {
	hw   HardwareClock
	mono Monotonic
	pi   *servo.PI
	hook func(SyncEvent)
	log  *log.Entry

	updateInterval int64
	minYear        int

	mu sync.Mutex
	// monotonic time of the anchor
	microsOffset int64
	utcAnchor    abstime.Instant
	// monotonic time of the last resync attempt
	lastUpdate int64
	attempted  bool
	calibrated bool
	setting    int
	// next read resyncs regardless of the interval
	forceSync bool
	// the anchor was set by software, a resync against it tells nothing about drift
	softAnchor bool
	freqPPB    float64
	lastErr    error
	stats      Stats
}

// New creates Clock. The hardware is not read until the first Micros or Sync.
func New(hw HardwareClock, mono Monotonic, opts ...Option) *Clock {
	c := &Clock{
		hw:      hw,
		mono:    mono,
		minYear: DefaultMinYear,
		log:     log.WithField("component", "rtc"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pi != nil {
		c.freqPPB = c.pi.LastFreq()
		if c.updateInterval > 0 {
			c.pi.SyncInterval(float64(c.updateInterval) / float64(abstime.Second))
		}
	}
	return c
}

// UpdateInterval returns the resync interval
func (c *Clock) UpdateInterval() time.Duration {
	return time.Duration(c.updateInterval) * time.Microsecond
}

// State returns current state
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Clock) state() State {
	if c.setting > 0 {
		return StateSetting
	}
	if c.calibrated {
		return StateCalibrated
	}
	return StateUnset
}

func (c *Clock) stale(now int64) bool {
	if c.setting > 0 {
		return false
	}
	if c.forceSync || !c.attempted {
		return true
	}
	return c.updateInterval > 0 && now-c.lastUpdate > c.updateInterval
}

// extrapolate advances the anchor by monotonic time passed since it was taken
func (c *Clock) extrapolate(now int64) abstime.Instant {
	elapsed := now - c.microsOffset
	if c.pi != nil {
		elapsed += int64(float64(elapsed) * c.freqPPB / 1e9)
	}
	return c.utcAnchor + abstime.Instant(elapsed)
}

func (c *Clock) anchor(i abstime.Instant, now int64) {
	c.utcAnchor = i
	c.microsOffset = now
}

func (c *Clock) notify(ev *SyncEvent) {
	if ev != nil && c.hook != nil {
		c.hook(*ev)
	}
}

// Micros returns current UTC time, resyncing with the hardware first if the anchor is stale
func (c *Clock) Micros() abstime.Instant {
	c.mu.Lock()
	var ev *SyncEvent
	if c.stale(c.mono.Micros()) {
		e := c.syncLocked()
		ev = &e
	}
	v := c.extrapolate(c.mono.Micros())
	c.mu.Unlock()

	c.notify(ev)
	return v
}

// Sync reads the hardware clock now and moves the anchor to it.
// On failure the previous anchor is kept and the next attempt waits one update interval.
func (c *Clock) Sync() error {
	c.mu.Lock()
	if c.setting > 0 {
		c.mu.Unlock()
		return ErrSetInProgress
	}
	ev := c.syncLocked()
	c.mu.Unlock()

	c.notify(&ev)
	return ev.Err
}

func (c *Clock) syncLocked() SyncEvent {
	c.attempted = true
	c.forceSync = false
	c.stats.Syncs++

	tps := c.hw.TicksPerSecond()
	secs, ticks, err := stableRead(c.hw)
	now := c.mono.Micros()
	c.lastUpdate = now
	if err != nil {
		c.stats.SyncErrors++
		c.lastErr = err
		c.log.Warningf("failed to read hardware clock, keeping previous anchor: %v", err)
		return SyncEvent{Err: err}
	}

	hw := toInstant(secs, ticks, tps)
	ev := SyncEvent{Hardware: hw}
	if c.calibrated {
		predicted := c.extrapolate(now)
		// hardware agrees within its resolution, keep the finer estimate
		if predicted >= hw && predicted < hw+abstime.Instant(tickMicros(tps)) {
			hw = predicted
		}
		residual := time.Duration(hw-predicted) * time.Microsecond
		ev.Residual = residual
		ev.Calibrated = !c.softAnchor
		c.stats.LastResidual = residual
		if c.pi != nil && !c.softAnchor {
			elapsed := time.Duration(now-c.microsOffset) * time.Microsecond
			ppb, state := c.pi.Sample(residual, elapsed)
			c.freqPPB = ppb
			c.stats.DriftPPB = ppb
			c.stats.ServoState = state
		}
	}
	c.anchor(hw, now)
	c.calibrated = true
	c.softAnchor = false
	c.log.Debugf("resynced to %v, residual %v", hw, ev.Residual)
	return ev
}

// SetMicros sets the clock and the hardware to i.
// The next read resyncs from the hardware to pick up what was actually written.
func (c *Clock) SetMicros(i abstime.Instant) {
	c.BeginSet()
	defer c.EndSet()

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.mono.Micros()
	c.anchor(i, now)
	c.calibrated = true
	c.attempted = true
	c.lastUpdate = now
	secs, ticks := fromInstant(i, c.hw.TicksPerSecond())
	if err := c.hw.WriteRaw(secs, ticks); err != nil {
		c.stats.WriteErrors++
		c.lastErr = err
		c.log.Warningf("failed to write hardware clock: %v", err)
	}
	c.forceSync = true
	c.softAnchor = true
}

// AdjustMicros moves the clock by delta microseconds.
// Hardware which can step is stepped directly, otherwise the clock is set.
func (c *Clock) AdjustMicros(delta int64) {
	if st, ok := c.hw.(Stepper); ok {
		c.mu.Lock()
		err := st.Step(time.Duration(delta) * time.Microsecond)
		if err == nil {
			c.utcAnchor += abstime.Instant(delta)
			c.forceSync = true
			c.softAnchor = true
			c.mu.Unlock()
			return
		}
		c.stats.WriteErrors++
		c.lastErr = err
		c.log.Warningf("failed to step hardware clock, setting it instead: %v", err)
		c.mu.Unlock()
	}
	c.SetMicros(c.Micros() + abstime.Instant(delta))
}

// BeginSet marks the start of a multi-step update, resyncs are held off until EndSet
func (c *Clock) BeginSet() {
	c.mu.Lock()
	c.setting++
	c.mu.Unlock()
}

// EndSet finishes update started with BeginSet
func (c *Clock) EndSet() {
	c.mu.Lock()
	if c.setting > 0 {
		c.setting--
	}
	c.mu.Unlock()
}

// HasBeenSet reports whether the clock holds a plausible time: it is
// calibrated, not being set, and the anchored year is after the minimum year
func (c *Clock) HasBeenSet() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state() != StateCalibrated {
		return false
	}
	return c.utcAnchor.Fields().Year() > c.minYear
}

// LastError returns the last hardware error
func (c *Clock) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Stats returns a snapshot of counters
func (c *Clock) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
