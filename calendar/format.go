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

import (
	"fmt"
	"io"
)

// Layout is one of the fixed text renderings of Fields
type Layout int

// Supported layouts
const (
	// ShortTime is "h:mm am"
	ShortTime Layout = iota
	// LongTime is "h:mm:ss am"
	LongTime
	// ShortDate is "yyyy-mm-dd"
	ShortDate
	// LongDate is "Weekday, Month d, yyyy"
	LongDate
)

func (l Layout) String() string {
	switch l {
	case ShortTime:
		return "short_time"
	case LongTime:
		return "long_time"
	case ShortDate:
		return "short_date"
	case LongDate:
		return "long_date"
	}
	return "unsupported"
}

func meridiem(hour int) string {
	if IsAM(hour) {
		return "am"
	}
	return "pm"
}

// Format renders fields using given layout
func Format(l Layout, f Fields) string {
	switch l {
	case ShortTime:
		return fmt.Sprintf("%d:%02d %s", HourFormat12(f.Hour), f.Minute, meridiem(f.Hour))
	case LongTime:
		return fmt.Sprintf("%d:%02d:%02d %s", HourFormat12(f.Hour), f.Minute, f.Second, meridiem(f.Hour))
	case ShortDate:
		return fmt.Sprintf("%d-%02d-%02d", f.Year(), f.Month, f.Day)
	case LongDate:
		return fmt.Sprintf("%s, %s %d, %d", WeekdayName(f.Weekday), MonthName(f.Month), f.Day, f.Year())
	}
	return ""
}

// Write streams formatted fields into w
func Write(w io.Writer, l Layout, f Fields) (int, error) {
	return io.WriteString(w, Format(l, f))
}

// Put copies formatted fields into a fixed capacity buffer, truncating
// output which does not fit. It returns the number of bytes written.
func Put(buf []byte, l Layout, f Fields) int {
	return copy(buf, Format(l, f))
}
