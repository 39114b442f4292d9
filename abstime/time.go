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
	"io"

	"github.com/facebook/rtclock/calendar"
)

// Time exposes calendar accessors and mutators over a Source.
// Time is not safe for concurrent use: it owns a calendar cache.
type Time struct {
	src   Source
	cache calendar.Cache
}

// New returns Time backed by src
func New(src Source) *Time {
	return &Time{src: src}
}

// At returns Time holding a fixed instant
func At(i Instant) *Time {
	return New(&Value{micros: i})
}

// Source returns underlying Source
func (t *Time) Source() Source {
	return t.src
}

// Micros returns microseconds since the epoch
func (t *Time) Micros() Instant {
	return t.src.Micros()
}

// Millis returns milliseconds since the epoch
func (t *Time) Millis() int64 {
	return t.src.Micros().Millis()
}

// Seconds returns seconds since the epoch
func (t *Time) Seconds() int64 {
	return t.src.Micros().Seconds()
}

// Frac returns milliseconds since the last whole second
func (t *Time) Frac() int64 {
	return int64(t.src.Micros().Frac() / Millisecond)
}

// SetMicros replaces the value
func (t *Time) SetMicros(i Instant) {
	t.src.SetMicros(i)
}

// SetMillis replaces the value
func (t *Time) SetMillis(ms int64) {
	t.src.SetMicros(FromMillis(ms))
}

// SetSeconds replaces the value
func (t *Time) SetSeconds(secs int64) {
	t.src.SetMicros(FromSeconds(secs))
}

// SetDateTime replaces the value with given absolute date and time of day.
// Fields are not validated.
func (t *Time) SetDateTime(year, month, day, hour, minute, second int) {
	t.BeginSet()
	defer t.EndSet()
	t.SetSeconds(calendar.Date(year, month, day, hour, minute, second))
}

// AdjustMicros moves the value by a signed delta
func (t *Time) AdjustMicros(delta int64) {
	if a, ok := t.src.(Adjuster); ok {
		a.AdjustMicros(delta)
		return
	}
	t.src.SetMicros(t.src.Micros() + Instant(delta))
}

// AdjustMillis moves the value by a signed delta
func (t *Time) AdjustMillis(delta int64) {
	t.AdjustMicros(delta * int64(Millisecond))
}

// AdjustSeconds moves the value by a signed delta
func (t *Time) AdjustSeconds(delta int64) {
	t.AdjustMicros(delta * int64(Second))
}

// IsTime reports whether the value matches secs at second resolution
func (t *Time) IsTime(secs int64) bool {
	if m, ok := t.src.(Matcher); ok {
		return m.IsTime(secs)
	}
	return t.Seconds() == secs
}

// BeginSet marks start of a multi-step update
func (t *Time) BeginSet() {
	if g, ok := t.src.(SetGuard); ok {
		g.BeginSet()
	}
}

// EndSet marks end of a multi-step update
func (t *Time) EndSet() {
	if g, ok := t.src.(SetGuard); ok {
		g.EndSet()
	}
}

// Fields returns calendar fields of the current value
func (t *Time) Fields() calendar.Fields {
	return t.cache.Fields(t.Seconds())
}

// Hour returns 0-23
func (t *Time) Hour() int {
	return t.Fields().Hour
}

// HourFormat12 returns 1-12
func (t *Time) HourFormat12() int {
	return calendar.HourFormat12(t.Fields().Hour)
}

// IsAM reports whether it's before noon
func (t *Time) IsAM() bool {
	return calendar.IsAM(t.Fields().Hour)
}

// Minute returns 0-59
func (t *Time) Minute() int {
	return t.Fields().Minute
}

// Second returns 0-59
func (t *Time) Second() int {
	return t.Fields().Second
}

// Year returns absolute calendar year
func (t *Time) Year() int {
	return t.Fields().Year()
}

// Month returns 1-12
func (t *Time) Month() int {
	return t.Fields().Month
}

// Day returns 1-31
func (t *Time) Day() int {
	return t.Fields().Day
}

// Weekday returns 1-7, 1 is Sunday
func (t *Time) Weekday() int {
	return t.Fields().Weekday
}

// WeekdayString returns name of weekday d, 0 means current weekday
func (t *Time) WeekdayString(d int) string {
	if d == 0 {
		d = t.Weekday()
	}
	return calendar.WeekdayName(d)
}

// MonthString returns name of month m, 0 means current month
func (t *Time) MonthString(m int) string {
	if m == 0 {
		m = t.Month()
	}
	return calendar.MonthName(m)
}

// DaysInMonth returns length of month m in the current year, 0 means current month
func (t *Time) DaysInMonth(m int) int {
	f := t.Fields()
	if m == 0 {
		m = f.Month
	}
	return calendar.DaysInMonth(f.Year(), m)
}

// Format renders the value with given layout
func (t *Time) Format(l calendar.Layout) string {
	return calendar.Format(l, t.Fields())
}

// Write streams the value rendered with given layout into w
func (t *Time) Write(w io.Writer, l calendar.Layout) (int, error) {
	return calendar.Write(w, l, t.Fields())
}

// Put renders the value into a fixed capacity buffer
func (t *Time) Put(buf []byte, l calendar.Layout) int {
	return calendar.Put(buf, l, t.Fields())
}

// String implements fmt.Stringer
func (t *Time) String() string {
	return t.Micros().String()
}
