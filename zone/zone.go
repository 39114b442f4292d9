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

// Package zone applies time zone offsets on top of UTC instants.
// Storage is always UTC, offsets are applied only when the value is read.
package zone

import (
	"fmt"
	"time"
)

// Rule describes the local time rule in effect at some instant
type Rule struct {
	Name   string // abbreviation, such as EST
	Offset int32  // seconds east of UTC
	IsDST  bool
}

func (r Rule) String() string {
	return fmt.Sprintf("%s (%+ds, dst=%v)", r.Name, r.Offset, r.IsDST)
}

// Timezone maps UTC seconds to the local offset in effect
type Timezone interface {
	// Offset returns signed seconds to add to utcSecs to get local time
	Offset(utcSecs int64) int32
	// ActiveRule returns the rule in effect at utcSecs, if known
	ActiveRule(utcSecs int64) (Rule, bool)
	// ToUTC maps local seconds back to UTC seconds
	ToUTC(localSecs int64) int64
}

// LocalToUTC solves local = utc + Offset(utc) for utc.
// The local value is first used as if it was UTC to look the offset up,
// then the lookup is repeated once at the resulting guess. Local times
// skipped or repeated by a transition resolve to one of the candidates.
func LocalToUTC(tz Timezone, localSecs int64) int64 {
	guess := localSecs - int64(tz.Offset(localSecs))
	return localSecs - int64(tz.Offset(guess))
}

// Fixed is a zone with constant offset
type Fixed struct {
	rule Rule
}

// UTC is the zero offset zone
var UTC = NewFixed("UTC", 0)

// NewFixed returns a zone with constant offset in seconds east of UTC
func NewFixed(name string, offset int32) *Fixed {
	return &Fixed{rule: Rule{Name: name, Offset: offset}}
}

// Offset implements Timezone
func (f *Fixed) Offset(_ int64) int32 {
	return f.rule.Offset
}

// ActiveRule implements Timezone
func (f *Fixed) ActiveRule(_ int64) (Rule, bool) {
	return f.rule, true
}

// ToUTC implements Timezone
func (f *Fixed) ToUTC(localSecs int64) int64 {
	return localSecs - int64(f.rule.Offset)
}

// Location adapts *time.Location to Timezone
type Location struct {
	loc *time.Location
}

// FromLocation returns Timezone backed by loc
func FromLocation(loc *time.Location) *Location {
	return &Location{loc: loc}
}

// Offset implements Timezone
func (l *Location) Offset(utcSecs int64) int32 {
	_, off := time.Unix(utcSecs, 0).In(l.loc).Zone()
	return int32(off)
}

// ActiveRule implements Timezone
func (l *Location) ActiveRule(utcSecs int64) (Rule, bool) {
	t := time.Unix(utcSecs, 0).In(l.loc)
	name, off := t.Zone()
	return Rule{Name: name, Offset: int32(off), IsDST: t.IsDST()}, true
}

// ToUTC implements Timezone
func (l *Location) ToUTC(localSecs int64) int64 {
	return LocalToUTC(l, localSecs)
}
