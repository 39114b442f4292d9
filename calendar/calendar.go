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

package calendar

// Durations in seconds used by the converter
const (
	SecsPerMinute = 60
	SecsPerHour   = 60 * SecsPerMinute
	SecsPerDay    = 24 * SecsPerHour
	SecsPerYear   = 365 * SecsPerDay
)

// EpochYear is the calendar year of second zero
const EpochYear = 1970

// epoch (1970-01-01) is a Thursday, weekday 5 in 1-based Sunday-first numbering
const epochWeekdayBias = 4

// Fields is a linear second broken down into calendar fields.
// Values are not validated: a month over 12 or a day past the end of
// the month is carried through the arithmetic as is.
type Fields struct {
	Second     int // 0-59
	Minute     int // 0-59
	Hour       int // 0-23
	Weekday    int // 1-7, 1 is Sunday
	Day        int // 1-31
	Month      int // 1-12
	YearOffset int // years since 1970
}

// Year returns absolute calendar year
func (f Fields) Year() int {
	return EpochYear + f.YearOffset
}

// months are 1 based, this table is 0 based
var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var weekdayNames = [8]string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var monthNames = [13]string{"", "January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}

// IsLeapYear applies the Gregorian rule to an absolute calendar year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns number of days in 1-based month of the given year.
// 0 is returned for a month outside of 1-12.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month-1]
}

// DaysInYear returns 365 or 366
func DaysInYear(year int) int64 {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// WeekdayName returns name of 1-based weekday, 1 is Sunday
func WeekdayName(d int) string {
	if d < 1 || d >= len(weekdayNames) {
		return ""
	}
	return weekdayNames[d]
}

// MonthName returns name of 1-based month
func MonthName(m int) string {
	if m < 1 || m >= len(monthNames) {
		return ""
	}
	return monthNames[m]
}

// HourFormat12 converts 0-23 hour to 1-12
func HourFormat12(hour int) int {
	switch {
	case hour == 0:
		return 12
	case hour > 12:
		return hour - 12
	}
	return hour
}

// IsAM reports whether hour is before noon
func IsAM(hour int) bool {
	return hour < 12
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

// ToFields converts seconds since 1970-01-01T00:00:00Z into calendar fields.
// Cost is linear in the number of years since the epoch.
func ToFields(secs int64) Fields {
	second := floorMod(secs, 60)
	t := floorDiv(secs, 60)
	minute := floorMod(t, 60)
	t = floorDiv(t, 60)
	hour := floorMod(t, 24)
	days := floorDiv(t, 24)

	weekday := floorMod(days+epochWeekdayBias, 7) + 1

	year := EpochYear
	for days < 0 {
		year--
		days += DaysInYear(year)
	}
	for {
		n := DaysInYear(year)
		if days < n {
			break
		}
		days -= n
		year++
	}

	month := 1
	for ; month < 12; month++ {
		n := int64(DaysInMonth(year, month))
		if days < n {
			break
		}
		days -= n
	}

	return Fields{
		Second:     int(second),
		Minute:     int(minute),
		Hour:       int(hour),
		Weekday:    int(weekday),
		Day:        int(days) + 1,
		Month:      month,
		YearOffset: year - EpochYear,
	}
}

// ToSeconds is the inverse of ToFields. Weekday is ignored.
func ToSeconds(f Fields) int64 {
	var days int64
	year := f.Year()
	if year >= EpochYear {
		for y := EpochYear; y < year; y++ {
			days += DaysInYear(y)
		}
	} else {
		for y := year; y < EpochYear; y++ {
			days -= DaysInYear(y)
		}
	}
	for m := 1; m < f.Month; m++ {
		days += int64(DaysInMonth(year, m))
	}
	days += int64(f.Day - 1)

	return days*SecsPerDay + int64(f.Hour)*SecsPerHour + int64(f.Minute)*SecsPerMinute + int64(f.Second)
}

// Date returns seconds since the epoch for an absolute calendar date and time of day
func Date(year, month, day, hour, minute, second int) int64 {
	return ToSeconds(Fields{
		Second:     second,
		Minute:     minute,
		Hour:       hour,
		Day:        day,
		Month:      month,
		YearOffset: year - EpochYear,
	})
}
