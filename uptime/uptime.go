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

/*
Package uptime turns a narrow free-running hardware counter into a 64-bit
microsecond count that never goes backward.

The counter is polled; a reading lower than the previous one means it wrapped,
and 2^32 is added to an accumulator. This only holds if the counter is read at
least once per wrap period (about 71.6 minutes for a 32-bit microsecond counter).
That is a precondition callers must meet, it is not detected.
*/
package uptime

import (
	"sync"
)

// wrapSpan is the width of the hardware counter, in ticks
const wrapSpan uint64 = 1 << 32

// Counter is a free-running microsecond counter which wraps at 2^32
type Counter interface {
	Ticks() uint32
}

// Func adapts a function to the Counter interface
type Func func() uint32

// Ticks implements Counter
func (f Func) Ticks() uint32 {
	return f()
}

// Uptime is the wrap-safe microsecond uptime.
// Coarser units are derived from the microsecond value, there is exactly one accumulator.
type Uptime struct {
	mu      sync.Mutex
	counter Counter
	last    uint32
	offset  uint64
	wraps   uint64
}

// New returns Uptime backed by given counter
func New(c Counter) *Uptime {
	return &Uptime{counter: c}
}

// Micros returns microseconds of uptime
func (u *Uptime) Micros() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	now := u.counter.Ticks()
	if now < u.last {
		u.offset += wrapSpan
		u.wraps++
	}
	u.last = now
	return int64(uint64(now) + u.offset)
}

// Millis returns milliseconds of uptime
func (u *Uptime) Millis() int64 {
	return u.Micros() / 1000
}

// Seconds returns seconds of uptime
func (u *Uptime) Seconds() int64 {
	return u.Micros() / 1000000
}

// Wraps returns how many times the counter wrapped so far
func (u *Uptime) Wraps() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.wraps
}
