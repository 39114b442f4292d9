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

package tzif

import (
	"errors"
	"fmt"

	"github.com/facebook/rtclock/calendar"
)

// defaultRuleTime is when transitions happen if the rule doesn't say, 02:00:00 local
const defaultRuleTime = 2 * calendar.SecsPerHour

// date forms of a POSIX TZ transition rule
const (
	julianNoLeap = 'J' // Jn: 1 <= n <= 365, February 29 is never counted
	julianLeap   = 'n' // n: 0 <= n <= 365, February 29 is counted
	monthWeekDay = 'M' // Mm.w.d: day d (0 is Sunday) of week w (5 is last) of month m
)

type ruleDate struct {
	kind  byte
	day   int
	week  int
	month int
	secs  int64 // local time of day of the transition, may be negative or past 24h
}

// start returns seconds of local midnight of the rule date in the given year
func (d ruleDate) start(year int) int64 {
	jan1 := calendar.Date(year, 1, 1, 0, 0, 0)
	switch d.kind {
	case julianNoLeap:
		n := int64(d.day - 1)
		if calendar.IsLeapYear(year) && d.day >= 60 {
			n++
		}
		return jan1 + n*calendar.SecsPerDay
	case julianLeap:
		return jan1 + int64(d.day)*calendar.SecsPerDay
	}
	first := calendar.Date(year, d.month, 1, 0, 0, 0)
	// calendar weekdays start at 1
	wd := calendar.ToFields(first).Weekday - 1
	md := 1 + (d.day-wd+7)%7 + (d.week-1)*7
	for md > calendar.DaysInMonth(year, d.month) {
		md -= 7
	}
	return calendar.Date(year, d.month, md, 0, 0, 0)
}

func (d ruleDate) at(year int) int64 {
	return d.start(year) + d.secs
}

// posixRule is a parsed POSIX TZ string such as "EST5EDT,M3.2.0,M11.1.0"
type posixRule struct {
	std    LocalTimeType
	dst    LocalTimeType
	hasDST bool
	begin  ruleDate
	end    ruleDate
}

// US rules are assumed when DST is named without transition dates
var (
	defaultBegin = ruleDate{kind: monthWeekDay, month: 3, week: 2, day: 0, secs: defaultRuleTime}
	defaultEnd   = ruleDate{kind: monthWeekDay, month: 11, week: 1, day: 0, secs: defaultRuleTime}
)

func (r *posixRule) lookup(utcSecs int64) LocalTimeType {
	if !r.hasDST {
		return r.std
	}
	year := calendar.ToFields(utcSecs + int64(r.std.Offset)).Year()
	// begin is expressed in standard time, end in daylight time
	begin := r.begin.at(year) - int64(r.std.Offset)
	end := r.end.at(year) - int64(r.dst.Offset)
	if begin < end {
		if utcSecs >= begin && utcSecs < end {
			return r.dst
		}
		return r.std
	}
	// southern hemisphere, daylight time spans new year
	if utcSecs < end || utcSecs >= begin {
		return r.dst
	}
	return r.std
}

var errEnd = errors.New("unexpected end")

type ruleParser struct {
	s   string
	pos int
}

func (p *ruleParser) done() bool {
	return p.pos >= len(p.s)
}

func (p *ruleParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *ruleParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("expected %q at %d", c, p.pos)
	}
	p.pos++
	return nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// name parses either alphabetic or <quoted> designation
func (p *ruleParser) name() (string, error) {
	if p.done() {
		return "", errEnd
	}
	start := p.pos
	var name string
	if p.peek() == '<' {
		p.pos++
		for !p.done() && p.peek() != '>' {
			p.pos++
		}
		if p.done() {
			return "", errEnd
		}
		name = p.s[start+1 : p.pos]
		p.pos++
	} else {
		for !p.done() && isAlpha(p.peek()) {
			p.pos++
		}
		name = p.s[start:p.pos]
	}
	if len(name) < 3 {
		return "", fmt.Errorf("designation %q is too short", name)
	}
	return name, nil
}

func (p *ruleParser) num(maxVal int) (int, error) {
	if !isDigit(p.peek()) {
		return 0, fmt.Errorf("expected number at %d", p.pos)
	}
	n := 0
	for isDigit(p.peek()) {
		n = n*10 + int(p.peek()-'0')
		p.pos++
		if n > maxVal {
			return 0, fmt.Errorf("number out of range at %d", p.pos)
		}
	}
	return n, nil
}

// offset parses [+-]hh[:mm[:ss]] into seconds
func (p *ruleParser) offset(maxHours int) (int64, error) {
	sign := int64(1)
	switch p.peek() {
	case '-':
		sign = -1
		p.pos++
	case '+':
		p.pos++
	}
	h, err := p.num(maxHours)
	if err != nil {
		return 0, err
	}
	secs := int64(h) * calendar.SecsPerHour
	for _, unit := range []int64{calendar.SecsPerMinute, 1} {
		if p.peek() != ':' {
			break
		}
		p.pos++
		v, err := p.num(59)
		if err != nil {
			return 0, err
		}
		secs += int64(v) * unit
	}
	return sign * secs, nil
}

func (p *ruleParser) date() (ruleDate, error) {
	var d ruleDate
	var err error
	switch c := p.peek(); {
	case c == 'J':
		p.pos++
		d.kind = julianNoLeap
		if d.day, err = p.num(365); err != nil {
			return d, err
		}
		if d.day < 1 {
			return d, fmt.Errorf("julian day must be at least 1")
		}
	case c == 'M':
		p.pos++
		d.kind = monthWeekDay
		if d.month, err = p.num(12); err != nil {
			return d, err
		}
		if err = p.expect('.'); err != nil {
			return d, err
		}
		if d.week, err = p.num(5); err != nil {
			return d, err
		}
		if err = p.expect('.'); err != nil {
			return d, err
		}
		if d.day, err = p.num(6); err != nil {
			return d, err
		}
		if d.month < 1 || d.week < 1 {
			return d, fmt.Errorf("month and week start at 1")
		}
	case isDigit(c):
		d.kind = julianLeap
		if d.day, err = p.num(365); err != nil {
			return d, err
		}
	default:
		return d, fmt.Errorf("bad date at %d", p.pos)
	}
	d.secs = defaultRuleTime
	if p.peek() == '/' {
		p.pos++
		// version 3 extension allows hours in -167..167
		if d.secs, err = p.offset(167); err != nil {
			return d, err
		}
	}
	return d, nil
}

// parseRule parses "std offset [dst [offset] [,start[/time],end[/time]]]".
// POSIX offsets are positive west of Greenwich, the result uses seconds east.
func parseRule(s string) (*posixRule, error) {
	p := &ruleParser{s: s}
	r := &posixRule{}
	var err error
	if r.std.Name, err = p.name(); err != nil {
		return nil, err
	}
	stdOff, err := p.offset(24)
	if err != nil {
		return nil, err
	}
	r.std.Offset = int32(-stdOff)
	if p.done() {
		return r, nil
	}

	r.hasDST = true
	r.dst.IsDST = true
	if r.dst.Name, err = p.name(); err != nil {
		return nil, err
	}
	dstOff := stdOff - calendar.SecsPerHour
	if !p.done() && p.peek() != ',' {
		if dstOff, err = p.offset(24); err != nil {
			return nil, err
		}
	}
	r.dst.Offset = int32(-dstOff)
	if p.done() {
		r.begin, r.end = defaultBegin, defaultEnd
		return r, nil
	}

	if err = p.expect(','); err != nil {
		return nil, err
	}
	if r.begin, err = p.date(); err != nil {
		return nil, err
	}
	if err = p.expect(','); err != nil {
		return nil, err
	}
	if r.end, err = p.date(); err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("trailing data at %d", p.pos)
	}
	return r, nil
}
