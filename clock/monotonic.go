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
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// MonotonicRaw is a microsecond counter over CLOCK_MONOTONIC_RAW truncated
// to 32 bits, so it wraps about every 71.6 minutes like a device timer register
type MonotonicRaw struct {
	last atomic.Uint32
}

// Ticks returns the current counter value.
// If the clock can't be read the previous value is returned, so a failed read
// never looks like a wrap.
func (m *MonotonicRaw) Ticks() uint32 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		log.Warningf("failed to read CLOCK_MONOTONIC_RAW: %v", err)
		return m.last.Load()
	}
	v := uint32(uint64(ts.Sec)*1000000 + uint64(ts.Nsec)/1000)
	m.last.Store(v)
	return v
}
