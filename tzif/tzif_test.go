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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebook/rtclock/calendar"
)

func TestParseV1(t *testing.T) {
	byteData := []byte{
		'T', 'Z', 'i', 'f', // magic
		0x00, 0x00, 0x00, 0x00, // version
		0x00, 0x00, 0x00, 0x00, // pad
		0x00, 0x00, 0x00, 0x00, // pad
		0x00, 0x00, 0x00, 0x00, // pad
		0x00, 0x00, 0x00, 0x00, // UTC/local
		0x00, 0x00, 0x00, 0x00, // standard/wall
		0x00, 0x00, 0x00, 0x01, // leap
		0x00, 0x00, 0x00, 0x00, // transition
		0x00, 0x00, 0x00, 0x01, // local tz
		0x00, 0x00, 0x00, 0x04, // characters
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // ttinfo
		'U', 'T', 'C', 0x00, // designations
		0x04, 0xb2, 0x58, 0x00, // leap time
		0x00, 0x00, 0x00, 0x01, // leap count
	}

	z, err := Parse(bytes.NewReader(byteData))
	require.NoError(t, err)
	require.Equal(t, byte(0), z.Version)
	require.Equal(t, []LocalTimeType{{Name: "UTC"}}, z.Types)
	require.Len(t, z.LeapSeconds(), 1)
	// Saturday, July 1, 1972 12:00:00 AM
	require.Equal(t, uint64(78796800), z.Leaps[0].Tleap)
	require.Equal(t, int32(1), z.Leaps[0].Nleap)
	require.Equal(t, int32(0), z.Offset(0))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("TZjf")))
	require.ErrorIs(t, err, ErrBadData)

	bad := append([]byte("TZif9"), make([]byte, 39)...)
	_, err = Parse(bytes.NewReader(bad))
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	// no local time types
	noTypes := append([]byte("TZif2"), make([]byte, 39)...)
	_, err = Parse(bytes.NewReader(noTypes))
	require.ErrorIs(t, err, ErrBadData)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, '2', newYork()))
	_, err = Parse(bytes.NewReader(buf.Bytes()[:buf.Len()-30]))
	require.ErrorIs(t, err, ErrBadData)
}

// newYork is two years of transitions with the footer continuing them
func newYork() *Zone {
	z := &Zone{
		Types: []LocalTimeType{
			{Name: "EDT", Offset: -4 * 3600, IsDST: true},
			{Name: "EST", Offset: -5 * 3600},
		},
		Transitions: []Transition{
			{When: calendar.Date(2020, 3, 8, 7, 0, 0), Type: 0},
			{When: calendar.Date(2020, 11, 1, 6, 0, 0), Type: 1},
		},
		Leaps: []LeapSecond{
			{Tleap: 78796800, Nleap: 1},
			{Tleap: 1483228826, Nleap: 27},
		},
	}
	if err := z.SetFooter("EST5EDT,M3.2.0,M11.1.0"); err != nil {
		panic(err)
	}
	return z
}

func TestWriteParseRoundTrip(t *testing.T) {
	for _, ver := range []byte{0, '2', '3'} {
		var buf bytes.Buffer
		in := newYork()
		require.NoError(t, Write(&buf, ver, in))

		out, err := Parse(&buf)
		require.NoError(t, err)
		require.Equal(t, ver, out.Version)
		require.Equal(t, in.Types, out.Types)
		require.Equal(t, in.Transitions, out.Transitions)
		require.Equal(t, in.Leaps, out.Leaps)
		if ver == 0 {
			require.Empty(t, out.Footer)
		} else {
			require.Equal(t, in.Footer, out.Footer)
		}
	}
	require.ErrorIs(t, Write(&bytes.Buffer{}, '1', newYork()), ErrUnsupportedVersion)
}

func TestLookup(t *testing.T) {
	z := newYork()
	tests := []struct {
		in   int64
		name string
		off  int32
	}{
		// before the first transition the first standard type is used
		{calendar.Date(2019, 7, 1, 0, 0, 0), "EST", -18000},
		{calendar.Date(2020, 3, 8, 6, 59, 59), "EST", -18000},
		{calendar.Date(2020, 3, 8, 7, 0, 0), "EDT", -14400},
		{calendar.Date(2020, 7, 1, 0, 0, 0), "EDT", -14400},
		{calendar.Date(2020, 12, 1, 0, 0, 0), "EST", -18000},
		// footer
		{calendar.Date(2021, 3, 14, 6, 59, 59), "EST", -18000},
		{calendar.Date(2021, 3, 14, 7, 0, 0), "EDT", -14400},
		{calendar.Date(2021, 11, 7, 5, 59, 59), "EDT", -14400},
		{calendar.Date(2021, 11, 7, 6, 0, 0), "EST", -18000},
	}
	for _, tt := range tests {
		rule, ok := z.ActiveRule(tt.in)
		require.True(t, ok)
		require.Equal(t, tt.name, rule.Name, time.Unix(tt.in, 0).UTC())
		require.Equal(t, tt.off, z.Offset(tt.in), time.Unix(tt.in, 0).UTC())
		require.Equal(t, tt.name == "EDT", rule.IsDST)
	}
}

func TestToUTC(t *testing.T) {
	z := newYork()
	local := calendar.Date(2021, 7, 4, 12, 0, 0)
	require.Equal(t, calendar.Date(2021, 7, 4, 16, 0, 0), z.ToUTC(local))
	local = calendar.Date(2021, 1, 4, 12, 0, 0)
	require.Equal(t, calendar.Date(2021, 1, 4, 17, 0, 0), z.ToUTC(local))
}

func TestFooterRules(t *testing.T) {
	tests := []struct {
		footer string
		in     int64
		want   LocalTimeType
	}{
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", calendar.Date(2021, 1, 15, 0, 0, 0), LocalTimeType{Name: "AEDT", Offset: 39600, IsDST: true}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", calendar.Date(2021, 4, 3, 15, 59, 59), LocalTimeType{Name: "AEDT", Offset: 39600, IsDST: true}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", calendar.Date(2021, 4, 3, 16, 0, 0), LocalTimeType{Name: "AEST", Offset: 36000}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", calendar.Date(2021, 7, 1, 0, 0, 0), LocalTimeType{Name: "AEST", Offset: 36000}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", calendar.Date(2021, 10, 2, 16, 0, 0), LocalTimeType{Name: "AEDT", Offset: 39600, IsDST: true}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", calendar.Date(2021, 12, 31, 20, 0, 0), LocalTimeType{Name: "AEDT", Offset: 39600, IsDST: true}},
		{"CET-1CEST,M3.5.0,M10.5.0/3", calendar.Date(2021, 3, 28, 0, 59, 59), LocalTimeType{Name: "CET", Offset: 3600}},
		{"CET-1CEST,M3.5.0,M10.5.0/3", calendar.Date(2021, 3, 28, 1, 0, 0), LocalTimeType{Name: "CEST", Offset: 7200, IsDST: true}},
		{"CET-1CEST,M3.5.0,M10.5.0/3", calendar.Date(2021, 10, 31, 0, 59, 59), LocalTimeType{Name: "CEST", Offset: 7200, IsDST: true}},
		{"CET-1CEST,M3.5.0,M10.5.0/3", calendar.Date(2021, 10, 31, 1, 0, 0), LocalTimeType{Name: "CET", Offset: 3600}},
		{"<+03>-3", calendar.Date(2021, 6, 1, 0, 0, 0), LocalTimeType{Name: "+03", Offset: 10800}},
		{"IST-5:30", calendar.Date(2021, 6, 1, 0, 0, 0), LocalTimeType{Name: "IST", Offset: 19800}},
		// J60 never counts February 29, day 300 is zero based
		{"AAA0BBB,J60,300", calendar.Date(2020, 2, 29, 12, 0, 0), LocalTimeType{Name: "AAA"}},
		{"AAA0BBB,J60,300", calendar.Date(2020, 3, 1, 2, 0, 0), LocalTimeType{Name: "BBB", Offset: 3600, IsDST: true}},
		{"AAA0BBB,J60,300", calendar.Date(2020, 10, 27, 0, 59, 59), LocalTimeType{Name: "BBB", Offset: 3600, IsDST: true}},
		{"AAA0BBB,J60,300", calendar.Date(2020, 10, 27, 1, 0, 0), LocalTimeType{Name: "AAA"}},
		// DST without dates uses US rules
		{"EST5EDT", calendar.Date(2021, 3, 14, 7, 0, 0), LocalTimeType{Name: "EDT", Offset: -14400, IsDST: true}},
	}
	for _, tt := range tests {
		z := &Zone{Types: []LocalTimeType{{Name: "LMT"}}}
		require.NoError(t, z.SetFooter(tt.footer))
		require.Equal(t, tt.want, z.Lookup(tt.in), "%s at %v", tt.footer, time.Unix(tt.in, 0).UTC())
	}
}

func TestFooterErrors(t *testing.T) {
	for _, footer := range []string{
		"E5",
		"EST",
		"EST5EDT,M13.1.0,M11.1.0",
		"EST5EDT,M3.0.0,M11.1.0",
		"EST5EDT,M3.2.7,M11.1.0",
		"EST5EDT,M3.2.0",
		"EST5EDT,J0,J100",
		"<EST5",
		"EST5EDT,M3.2.0,M11.1.0junk",
		"EST25",
	} {
		z := &Zone{}
		err := z.SetFooter(footer)
		require.Error(t, err, footer)
		require.True(t, errors.Is(err, ErrBadFooter), footer)
	}
}

func TestLatest(t *testing.T) {
	z := newYork()
	l, ok := z.Latest(time.Unix(100000000, 0))
	require.True(t, ok)
	require.Equal(t, int32(1), l.Nleap)

	l, ok = z.Latest(time.Now())
	require.True(t, ok)
	require.Equal(t, int32(27), l.Nleap)
	require.Equal(t, time.Unix(1483228800, 0), l.Time())

	_, ok = z.Latest(time.Unix(0, 0))
	require.False(t, ok)
}

func TestLoadName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "America"), 0o755))
	f, err := os.Create(filepath.Join(dir, "America", "New_York"))
	require.NoError(t, err)
	require.NoError(t, Write(f, '2', newYork()))
	require.NoError(t, f.Close())

	prev := ZoneinfoDir
	ZoneinfoDir = dir
	defer func() { ZoneinfoDir = prev }()

	z, err := LoadName("America/New_York")
	require.NoError(t, err)
	require.Equal(t, "America/New_York", z.Name)
	require.Equal(t, int32(-14400), z.Offset(calendar.Date(2022, 7, 1, 0, 0, 0)))

	_, err = LoadName("Nowhere/Nothing")
	require.Error(t, err)
}

func TestSystemZoneMatchesLocation(t *testing.T) {
	z, err := LoadName("Europe/London")
	if err != nil {
		t.Skip("no system zoneinfo")
	}
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	for s := calendar.Date(1990, 1, 1, 0, 0, 0); s < calendar.Date(2040, 1, 1, 0, 0, 0); s += 7 * calendar.SecsPerDay {
		_, want := time.Unix(s, 0).In(loc).Zone()
		require.Equal(t, int32(want), z.Offset(s), time.Unix(s, 0).UTC())
	}
}
