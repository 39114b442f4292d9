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

package rtc

import (
	"errors"
	"time"

	"github.com/facebook/rtclock/abstime"
)

//go:generate mockgen -source=hardware.go -destination=mock_hardware_test.go -package=rtc

// HardwareClock is a battery backed clock which keeps time while the system is off
type HardwareClock interface {
	// ReadRaw returns seconds since the epoch and sub-second ticks
	ReadRaw() (secs int64, ticks uint32, err error)
	// WriteRaw sets the clock
	WriteRaw(secs int64, ticks uint32) error
	// TicksPerSecond is the sub-second resolution of the clock
	TicksPerSecond() uint32
}

// Stepper is implemented by hardware which can be moved by a relative amount
type Stepper interface {
	Step(step time.Duration) error
}

// Monotonic is elapsed time since boot in microseconds, it never goes backwards
type Monotonic interface {
	Micros() int64
}

// maxReadAttempts bounds reading the hardware until two consecutive readings agree
const maxReadAttempts = 5

// ErrUnstableRead means consecutive hardware readings never agreed
var ErrUnstableRead = errors.New("hardware clock reading is not stable")

// ErrSetInProgress is returned by Sync while the clock is being set
var ErrSetInProgress = errors.New("clock is being set")

func normTPS(tps uint32) int64 {
	if tps == 0 {
		return 1
	}
	return int64(tps)
}

// tickMicros is the length of one tick rounded up to whole microseconds
func tickMicros(tps uint32) int64 {
	t := normTPS(tps)
	return (int64(abstime.Second) + t - 1) / t
}

// toInstant converts a raw hardware reading
func toInstant(secs int64, ticks, tps uint32) abstime.Instant {
	return abstime.FromSeconds(secs) + abstime.Instant(int64(ticks)*int64(abstime.Second)/normTPS(tps))
}

// fromInstant converts into a raw hardware value, truncating to the clock resolution
func fromInstant(i abstime.Instant, tps uint32) (int64, uint32) {
	return i.Seconds(), uint32(int64(i.Frac()) * normTPS(tps) / int64(abstime.Second))
}

// stableRead reads until the seconds of two consecutive readings agree
func stableRead(hw HardwareClock) (int64, uint32, error) {
	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		first, _, err := hw.ReadRaw()
		if err != nil {
			return 0, 0, err
		}
		secs, ticks, err := hw.ReadRaw()
		if err != nil {
			return 0, 0, err
		}
		if first == secs {
			return secs, ticks, nil
		}
	}
	return 0, 0, ErrUnstableRead
}
