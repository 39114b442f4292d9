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

package abstime

import (
	"time"

	"github.com/facebook/rtclock/calendar"
)

// Instant is a count of microseconds since 1970-01-01T00:00:00Z
type Instant int64

// Units of Instant
const (
	Microsecond Instant = 1
	Millisecond         = 1000 * Microsecond
	Second              = 1000 * Millisecond
)

// FromSeconds converts seconds since the epoch to Instant
func FromSeconds(secs int64) Instant {
	return Instant(secs) * Second
}

// FromMillis converts milliseconds since the epoch to Instant
func FromMillis(ms int64) Instant {
	return Instant(ms) * Millisecond
}

// FromTime converts time.Time to Instant, dropping sub-microsecond precision
func FromTime(t time.Time) Instant {
	return Instant(t.UnixMicro())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Seconds returns whole seconds since the epoch, rounding towards the past
func (i Instant) Seconds() int64 {
	return floorDiv(int64(i), int64(Second))
}

// Millis returns whole milliseconds since the epoch, rounding towards the past
func (i Instant) Millis() int64 {
	return floorDiv(int64(i), int64(Millisecond))
}

// Frac returns microseconds elapsed since the start of the current second
func (i Instant) Frac() Instant {
	return i - FromSeconds(i.Seconds())
}

// Time converts Instant to time.Time in UTC
func (i Instant) Time() time.Time {
	return time.UnixMicro(int64(i)).UTC()
}

// Fields breaks Instant down into calendar fields
func (i Instant) Fields() calendar.Fields {
	return calendar.ToFields(i.Seconds())
}

// String implements fmt.Stringer
func (i Instant) String() string {
	return i.Time().Format(time.RFC3339Nano)
}
