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

package zone

import (
	"github.com/facebook/rtclock/abstime"
)

// Local is a zone adjusted view over a UTC Source.
// Reads add the zone offset, writes remove it, the wrapped Source always holds UTC.
//
// While Local is calling into the wrapped Source, any nested read through
// Local returns plain UTC. Sources such as the RTC clock calibrate themselves
// on the read path, and hooks running during calibration must not see the
// offset applied on top of a value that is being computed.
// Local is not safe for concurrent use.
type Local struct {
	src        abstime.Source
	tz         Timezone
	delegating int
}

// NewLocal returns Local over src. nil tz means UTC.
func NewLocal(src abstime.Source, tz Timezone) *Local {
	return &Local{src: src, tz: tz}
}

func (l *Local) delegate(f func()) {
	l.delegating++
	defer func() { l.delegating-- }()
	f()
}

func (l *Local) active() bool {
	return l.tz != nil && l.delegating == 0
}

// Zone returns current Timezone
func (l *Local) Zone() Timezone {
	return l.tz
}

// SetZone replaces current Timezone
func (l *Local) SetZone(tz Timezone) {
	l.tz = tz
}

// Source returns wrapped UTC Source
func (l *Local) Source() abstime.Source {
	return l.src
}

// UTC returns the wrapped value without zone offset
func (l *Local) UTC() abstime.Instant {
	var utc abstime.Instant
	l.delegate(func() { utc = l.src.Micros() })
	return utc
}

// Micros implements abstime.Source, returning local time
func (l *Local) Micros() abstime.Instant {
	if !l.active() {
		return l.src.Micros()
	}
	utc := l.UTC()
	return utc + abstime.FromSeconds(int64(l.tz.Offset(utc.Seconds())))
}

// SetMicros implements abstime.Source, i is local time
func (l *Local) SetMicros(i abstime.Instant) {
	utc := i
	if l.active() {
		utc = abstime.FromSeconds(l.tz.ToUTC(i.Seconds())) + i.Frac()
	}
	l.delegate(func() { l.src.SetMicros(utc) })
}

// AdjustMicros implements abstime.Adjuster. Relative changes don't depend on the zone.
func (l *Local) AdjustMicros(delta int64) {
	l.delegate(func() {
		if a, ok := l.src.(abstime.Adjuster); ok {
			a.AdjustMicros(delta)
			return
		}
		l.src.SetMicros(l.src.Micros() + abstime.Instant(delta))
	})
}

// BeginSet implements abstime.SetGuard
func (l *Local) BeginSet() {
	if g, ok := l.src.(abstime.SetGuard); ok {
		g.BeginSet()
	}
}

// EndSet implements abstime.SetGuard
func (l *Local) EndSet() {
	if g, ok := l.src.(abstime.SetGuard); ok {
		g.EndSet()
	}
}

// Offset returns zone offset in effect now, in seconds
func (l *Local) Offset() int32 {
	if l.tz == nil {
		return 0
	}
	return l.tz.Offset(l.UTC().Seconds())
}

// Rule returns zone rule in effect now
func (l *Local) Rule() (Rule, bool) {
	if l.tz == nil {
		return Rule{}, false
	}
	return l.tz.ActiveRule(l.UTC().Seconds())
}
