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
	"github.com/facebook/rtclock/calendar"
)

// Period is the length of a bounded recurring time, in seconds
type Period int64

// Supported periods
const (
	Day  Period = calendar.SecsPerDay
	Year Period = calendar.SecsPerYear
)

// Micros returns period length as Instant
func (p Period) Micros() Instant {
	return FromSeconds(int64(p))
}

func (p Period) String() string {
	switch p {
	case Day:
		return "daily"
	case Year:
		return "yearly"
	}
	return "custom"
}

// Bounded is a Source constrained to [0, period). Useful for recurring alarms,
// such as 8:00 every day or March 3rd every year.
type Bounded struct {
	period Period
	value  Instant
}

// NewBounded returns zero Bounded of given period
func NewBounded(p Period) *Bounded {
	return &Bounded{period: p}
}

// NewDaily returns Bounded holding a time of day
func NewDaily(hour, minute, second int) *Bounded {
	b := NewBounded(Day)
	b.SetMicros(FromSeconds(int64(hour)*calendar.SecsPerHour + int64(minute)*calendar.SecsPerMinute + int64(second)))
	return b
}

// NewYearly returns Bounded holding a time of a non-leap year
func NewYearly(month, day, hour, minute, second int) *Bounded {
	b := NewBounded(Year)
	b.SetMicros(FromSeconds(calendar.Date(calendar.EpochYear, month, day, hour, minute, second)))
	return b
}

// Period returns length of the period
func (b *Bounded) Period() Period {
	return b.period
}

// Micros implements Source
func (b *Bounded) Micros() Instant {
	return b.value
}

// SetMicros implements Source, the value is taken modulo period
func (b *Bounded) SetMicros(i Instant) {
	p := b.period.Micros()
	v := i % p
	if v < 0 {
		v += p
	}
	b.value = v
}

// AdjustMicros implements Adjuster. A negative delta is first turned into
// an equivalent positive one, so the value stays within bounds.
func (b *Bounded) AdjustMicros(delta int64) {
	p := int64(b.period.Micros())
	if delta < 0 {
		delta = p - ((-delta) % p)
	}
	b.SetMicros(b.value + Instant(delta))
}

// IsTime implements Matcher, secs is compared modulo period.
// Yearly values compare calendar date and time of day, like NextOccurrence.
func (b *Bounded) IsTime(secs int64) bool {
	if b.period == Year {
		want, got := b.value.Fields(), calendar.ToFields(secs)
		return want.Month == got.Month && want.Day == got.Day &&
			want.Hour == got.Hour && want.Minute == got.Minute && want.Second == got.Second
	}
	p := int64(b.period)
	s := secs % p
	if s < 0 {
		s += p
	}
	return b.value.Seconds() == s
}

// NextOccurrence returns the earliest instant not before starting which
// matches the stored value. Yearly values follow calendar years, so leap
// days don't shift them.
func (b *Bounded) NextOccurrence(starting Instant) Instant {
	if b.period == Year {
		return b.nextYearly(starting)
	}
	p := b.period.Micros()
	start := Instant(floorDiv(int64(starting), int64(p))) * p
	next := start + b.value
	if next < starting {
		next += p
	}
	return next
}

func (b *Bounded) nextYearly(starting Instant) Instant {
	f := b.value.Fields()
	frac := b.value.Frac()
	year := starting.Fields().Year()
	next := FromSeconds(calendar.Date(year, f.Month, f.Day, f.Hour, f.Minute, f.Second)) + frac
	if next < starting {
		next = FromSeconds(calendar.Date(year+1, f.Month, f.Day, f.Hour, f.Minute, f.Second)) + frac
	}
	return next
}
