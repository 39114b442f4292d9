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
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebook/rtclock/calendar"
)

type guardedSource struct {
	Value
	begins  int
	ends    int
	sets    int
	setting bool
}

func (g *guardedSource) SetMicros(i Instant) {
	g.sets++
	g.Value.SetMicros(i)
}

func (g *guardedSource) BeginSet() {
	g.begins++
	g.setting = true
}

func (g *guardedSource) EndSet() {
	g.ends++
	g.setting = false
}

func TestInstantConversions(t *testing.T) {
	i := FromSeconds(1704067200) + 250*Millisecond + 7
	require.Equal(t, int64(1704067200), i.Seconds())
	require.Equal(t, int64(1704067200250), i.Millis())
	require.Equal(t, 250*Millisecond+7, i.Frac())
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 250007000, time.UTC), i.Time())
	require.Equal(t, i, FromTime(i.Time()))
	require.Equal(t, FromMillis(1500), Second+500*Millisecond)
	require.Equal(t, "2024-01-01T00:00:00.250007Z", i.String())

	neg := Instant(-1)
	require.Equal(t, int64(-1), neg.Seconds())
	require.Equal(t, int64(-1), neg.Millis())
	require.Equal(t, Second-1, neg.Frac())
}

func TestTimeSetAndGet(t *testing.T) {
	tm := At(0)
	require.Equal(t, Instant(0), tm.Micros())
	require.Equal(t, 5, tm.Weekday())

	tm.SetSeconds(42)
	require.Equal(t, int64(42), tm.Seconds())
	require.Equal(t, int64(42000), tm.Millis())

	tm.SetMillis(1234)
	require.Equal(t, int64(1), tm.Seconds())
	require.Equal(t, int64(234), tm.Frac())

	tm.SetMicros(3 * Second)
	require.Equal(t, int64(3000), tm.Millis())
}

func TestTimeSetDateTime(t *testing.T) {
	src := &guardedSource{}
	tm := New(src)
	tm.SetDateTime(2021, 7, 4, 15, 5, 9)
	require.Equal(t, 1, src.begins)
	require.Equal(t, 1, src.ends)
	require.False(t, src.setting)

	require.Equal(t, 2021, tm.Year())
	require.Equal(t, 7, tm.Month())
	require.Equal(t, 4, tm.Day())
	require.Equal(t, 15, tm.Hour())
	require.Equal(t, 5, tm.Minute())
	require.Equal(t, 9, tm.Second())
	require.Equal(t, 1, tm.Weekday())
	require.Equal(t, 3, tm.HourFormat12())
	require.False(t, tm.IsAM())
	require.Equal(t, "Sunday", tm.WeekdayString(0))
	require.Equal(t, "Monday", tm.WeekdayString(2))
	require.Equal(t, "July", tm.MonthString(0))
	require.Equal(t, "February", tm.MonthString(2))
	require.Equal(t, 31, tm.DaysInMonth(0))
	require.Equal(t, 28, tm.DaysInMonth(2))
	require.Equal(t, time.Date(2021, 7, 4, 15, 5, 9, 0, time.UTC).Unix(), tm.Seconds())
}

func TestTimeFormatting(t *testing.T) {
	tm := At(FromSeconds(calendar.Date(2020, 2, 29, 9, 7, 5)))
	require.Equal(t, "9:07 am", tm.Format(calendar.ShortTime))
	require.Equal(t, "9:07:05 am", tm.Format(calendar.LongTime))
	require.Equal(t, "2020-02-29", tm.Format(calendar.ShortDate))
	require.Equal(t, "Saturday, February 29, 2020", tm.Format(calendar.LongDate))
	require.Equal(t, 29, tm.DaysInMonth(0))

	var b bytes.Buffer
	_, err := tm.Write(&b, calendar.ShortDate)
	require.NoError(t, err)
	require.Equal(t, "2020-02-29", b.String())

	buf := make([]byte, 7)
	require.Equal(t, 7, tm.Put(buf, calendar.ShortDate))
	require.Equal(t, "2020-02", string(buf))
	require.Equal(t, "2020-02-29T09:07:05Z", tm.String())
}

func TestTimeAdjust(t *testing.T) {
	tm := At(FromSeconds(100))
	tm.AdjustSeconds(-30)
	require.Equal(t, int64(70), tm.Seconds())
	tm.AdjustMillis(1500)
	require.Equal(t, FromMillis(71500), tm.Micros())
	tm.AdjustMicros(-500000)
	require.Equal(t, FromSeconds(71), tm.Micros())
}

func TestTimeIsTime(t *testing.T) {
	tm := At(FromSeconds(100) + 999*Millisecond)
	require.True(t, tm.IsTime(100))
	require.False(t, tm.IsTime(101))
}

func TestTimeCacheFollowsValue(t *testing.T) {
	tm := At(FromSeconds(calendar.Date(2021, 1, 1, 10, 0, 0)))
	require.Equal(t, 10, tm.Hour())
	tm.AdjustSeconds(calendar.SecsPerHour)
	require.Equal(t, 11, tm.Hour())
	require.Equal(t, uint64(2), tm.cache.Misses())
	require.Equal(t, 0, tm.Minute())
	require.Equal(t, uint64(1), tm.cache.Hits())
}

func TestBoundedDailyAdjustWraps(t *testing.T) {
	d := NewBounded(Day)
	tm := New(d)
	tm.AdjustSeconds(-1)
	require.Equal(t, int64(calendar.SecsPerDay-1), tm.Seconds())

	tm.AdjustSeconds(2)
	require.Equal(t, int64(1), tm.Seconds())

	tm.AdjustSeconds(-3 * calendar.SecsPerDay)
	require.Equal(t, int64(1), tm.Seconds())

	tm.AdjustSeconds(-calendar.SecsPerDay - 2)
	require.Equal(t, int64(calendar.SecsPerDay-1), tm.Seconds())
}

func TestBoundedSetModulo(t *testing.T) {
	d := NewBounded(Day)
	d.SetMicros(FromSeconds(5*calendar.SecsPerDay + 10))
	require.Equal(t, FromSeconds(10), d.Micros())
	d.SetMicros(FromSeconds(-10))
	require.Equal(t, FromSeconds(calendar.SecsPerDay-10), d.Micros())
	require.Equal(t, Day, d.Period())
	require.Equal(t, "daily", d.Period().String())
}

func TestBoundedIsTime(t *testing.T) {
	d := NewDaily(8, 0, 0)
	tm := New(d)
	eight := calendar.Date(2021, 3, 3, 8, 0, 0)
	require.True(t, tm.IsTime(eight))
	require.True(t, tm.IsTime(eight+calendar.SecsPerDay))
	require.False(t, tm.IsTime(eight+1))
	require.Equal(t, 8, tm.Hour())
}

func TestBoundedNextOccurrenceDaily(t *testing.T) {
	d := NewDaily(8, 0, 0)

	after := FromSeconds(calendar.Date(2021, 3, 3, 8, 0, 1))
	require.Equal(t, FromSeconds(calendar.Date(2021, 3, 4, 8, 0, 0)), d.NextOccurrence(after))

	before := FromSeconds(calendar.Date(2021, 3, 3, 7, 59, 59))
	require.Equal(t, FromSeconds(calendar.Date(2021, 3, 3, 8, 0, 0)), d.NextOccurrence(before))

	exact := FromSeconds(calendar.Date(2021, 3, 3, 8, 0, 0))
	require.Equal(t, exact, d.NextOccurrence(exact))

	// end of year rolls into the next one
	late := FromSeconds(calendar.Date(2021, 12, 31, 23, 0, 0))
	require.Equal(t, FromSeconds(calendar.Date(2022, 1, 1, 8, 0, 0)), d.NextOccurrence(late))
}

func TestBoundedNextOccurrenceYearly(t *testing.T) {
	y := NewYearly(3, 3, 12, 0, 0)
	require.Equal(t, Year, y.Period())

	// 2020 is a leap year, March 3rd must not shift
	before := FromSeconds(calendar.Date(2020, 1, 15, 0, 0, 0))
	require.Equal(t, FromSeconds(calendar.Date(2020, 3, 3, 12, 0, 0)), y.NextOccurrence(before))

	after := FromSeconds(calendar.Date(2020, 3, 3, 12, 0, 1))
	require.Equal(t, FromSeconds(calendar.Date(2021, 3, 3, 12, 0, 0)), y.NextOccurrence(after))
}

func TestBoundedYearlyIsTime(t *testing.T) {
	y := NewYearly(3, 3, 8, 0, 0)
	for _, year := range []int{1970, 1972, 2023, 2024, 2100} {
		require.True(t, y.IsTime(calendar.Date(year, 3, 3, 8, 0, 0)), "year %d", year)
		require.False(t, y.IsTime(calendar.Date(year, 3, 3, 8, 0, 1)), "year %d", year)
		require.False(t, y.IsTime(calendar.Date(year, 3, 4, 8, 0, 0)), "year %d", year)
	}
	require.True(t, New(y).IsTime(calendar.Date(2024, 3, 3, 8, 0, 0)))
}

func TestBoundedNextOccurrenceMatches(t *testing.T) {
	values := []*Bounded{
		NewDaily(0, 0, 0),
		NewDaily(8, 0, 0),
		NewDaily(23, 59, 59),
		NewYearly(1, 1, 0, 0, 0),
		NewYearly(3, 3, 8, 0, 0),
		NewYearly(12, 31, 23, 59, 59),
	}
	starts := []int64{
		calendar.Date(2023, 6, 15, 12, 0, 0),
		calendar.Date(2024, 1, 1, 0, 0, 0),
		calendar.Date(2024, 2, 29, 23, 0, 0),
		calendar.Date(2024, 12, 31, 23, 59, 59),
	}
	for _, b := range values {
		for _, start := range starts {
			next := b.NextOccurrence(FromSeconds(start))
			require.GreaterOrEqual(t, next, FromSeconds(start))
			require.True(t, b.IsTime(next.Seconds()), "%s from %s gave %s", b.Period(), FromSeconds(start), next)
		}
	}
}
