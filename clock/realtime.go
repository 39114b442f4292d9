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

package clock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// NanosPerSecond is the tick rate of POSIX clocks
const NanosPerSecond = uint32(time.Second)

// Realtime is CLOCK_REALTIME (or any other settable POSIX clock) used as a hardware clock.
// Ticks are nanoseconds.
type Realtime struct {
	clockID int32
}

// NewRealtime returns Realtime for CLOCK_REALTIME
func NewRealtime() *Realtime {
	return &Realtime{clockID: unix.CLOCK_REALTIME}
}

// NewPOSIX returns Realtime for arbitrary clock id, such as one obtained from a PHC file descriptor
func NewPOSIX(clockID int32) *Realtime {
	return &Realtime{clockID: clockID}
}

// ClockID returns underlying clock id
func (r *Realtime) ClockID() int32 {
	return r.clockID
}

// ReadRaw returns seconds and nanoseconds since the epoch
func (r *Realtime) ReadRaw() (int64, uint32, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(r.clockID, &ts); err != nil {
		return 0, 0, fmt.Errorf("clock_gettime on clock %d: %w", r.clockID, err)
	}
	sec, nsec := ts.Unix()
	return sec, uint32(nsec), nil
}

// WriteRaw sets the clock
func (r *Realtime) WriteRaw(sec int64, ticks uint32) error {
	ts := timespec(sec, int64(ticks))
	if err := unix.ClockSettime(r.clockID, &ts); err != nil {
		return fmt.Errorf("clock_settime on clock %d: %w", r.clockID, err)
	}
	return nil
}

// TicksPerSecond returns resolution of the raw ticks
func (r *Realtime) TicksPerSecond() uint32 {
	return NanosPerSecond
}

// Step moves the clock by d
func (r *Realtime) Step(d time.Duration) error {
	if _, err := Step(r.clockID, d); err != nil {
		return fmt.Errorf("stepping clock %d by %v: %w", r.clockID, d, err)
	}
	return nil
}
