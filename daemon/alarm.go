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

package daemon

import (
	"fmt"

	"github.com/facebook/rtclock/abstime"
	"github.com/facebook/rtclock/calendar"
)

// Alarm fires once per period at a fixed local time
type Alarm struct {
	Name string

	at        *abstime.Bounded
	next      abstime.Instant
	scheduled bool
}

// NewAlarm creates Alarm firing whenever local time matches at
func NewAlarm(name string, at *abstime.Bounded) *Alarm {
	return &Alarm{Name: name, at: at}
}

func parseTimeOfDay(s string) (h, m, sec int, err error) {
	var extra string
	n, _ := fmt.Sscanf(s, "%d:%d:%d%s", &h, &m, &sec, &extra)
	if n != 3 {
		return 0, 0, 0, fmt.Errorf("time of day %q is not hh:mm:ss", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, 0, 0, fmt.Errorf("time of day %q is out of range", s)
	}
	return h, m, sec, nil
}

// ParseAlarm creates Alarm from config
func ParseAlarm(ac AlarmConfig) (*Alarm, error) {
	if ac.Name == "" {
		return nil, fmt.Errorf("alarm name must be specified")
	}
	switch {
	case ac.Daily != "" && ac.Yearly != "":
		return nil, fmt.Errorf("alarm %q: only one of 'daily' and 'yearly' may be specified", ac.Name)
	case ac.Daily != "":
		h, m, s, err := parseTimeOfDay(ac.Daily)
		if err != nil {
			return nil, fmt.Errorf("alarm %q: %w", ac.Name, err)
		}
		return NewAlarm(ac.Name, abstime.NewDaily(h, m, s)), nil
	case ac.Yearly != "":
		var month, day int
		var tod string
		if n, _ := fmt.Sscanf(ac.Yearly, "%d-%d %s", &month, &day, &tod); n != 3 {
			return nil, fmt.Errorf("alarm %q: %q is not mm-dd hh:mm:ss", ac.Name, ac.Yearly)
		}
		// the recurring year has no leap day
		if month < 1 || month > 12 || day < 1 || day > calendar.DaysInMonth(calendar.EpochYear, month) {
			return nil, fmt.Errorf("alarm %q: date %q is out of range", ac.Name, ac.Yearly)
		}
		h, m, s, err := parseTimeOfDay(tod)
		if err != nil {
			return nil, fmt.Errorf("alarm %q: %w", ac.Name, err)
		}
		return NewAlarm(ac.Name, abstime.NewYearly(month, day, h, m, s)), nil
	}
	return nil, fmt.Errorf("alarm %q: one of 'daily' or 'yearly' must be specified", ac.Name)
}

// Period returns how often the alarm fires
func (a *Alarm) Period() abstime.Period {
	return a.at.Period()
}

// Next returns when the alarm fires next, in local time
func (a *Alarm) Next() (abstime.Instant, bool) {
	return a.next, a.scheduled
}

// Reset forgets the schedule, it is computed again on the next check
func (a *Alarm) Reset() {
	a.scheduled = false
}

// Check reports whether the alarm is due at local time now and schedules the next occurrence
func (a *Alarm) Check(now abstime.Instant) bool {
	// first check, or the clock went back by more than a period
	if !a.scheduled || a.next-now > 2*a.Period().Micros() {
		a.next = a.at.NextOccurrence(now)
		a.scheduled = true
		return false
	}
	if now < a.next {
		return false
	}
	a.next = a.at.NextOccurrence(now + 1)
	return true
}

func (a *Alarm) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Period())
}
