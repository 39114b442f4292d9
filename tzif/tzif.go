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

// Package tzif reads time zone rules from the system timezone database
// (TZif files, RFC 8536) and exposes them as zone.Timezone.
package tzif

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/facebook/rtclock/zone"
)

// ZoneinfoDir is where named zones are looked up
var ZoneinfoDir = "/usr/share/zoneinfo"

// Errors returned by the parser
var (
	ErrBadData            = errors.New("malformed time zone information")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrBadFooter          = errors.New("malformed POSIX TZ footer")
)

const magicHeader = "TZif"

// Header represents file header structure. Fields names are copied from doc
type Header struct {
	// A four-octet unsigned integer specifying the number of UTC/local indicators contained in the body.
	IsUtcCnt uint32
	// A four-octet unsigned integer specifying the number of standard/wall indicators contained in the body.
	IsStdCnt uint32
	// A four-octet unsigned integer specifying the number of leap second records contained in the body.
	LeapCnt uint32
	// A four-octet unsigned integer specifying the number of transition times contained in the body.
	TimeCnt uint32
	// A four-octet unsigned integer specifying the number of local time type Records contained in the body - MUST NOT be zero.
	TypeCnt uint32
	// A four-octet unsigned integer specifying the total number of octets used by the set of time zone designations contained in the body.
	CharCnt uint32
}

// LeapSecond represents a leap second
type LeapSecond struct {
	Tleap uint64
	Nleap int32
}

// Time returns when the leap second event occurs
func (l LeapSecond) Time() time.Time {
	return time.Unix(int64(l.Tleap-uint64(l.Nleap)+1), 0)
}

// LocalTimeType is one of the local time rules a zone switches between
type LocalTimeType struct {
	Offset int32 // seconds east of UTC
	IsDST  bool
	Name   string
}

// Transition switches the zone to Types[Type] at When, in UTC seconds
type Transition struct {
	When int64
	Type uint8
}

// Zone is a parsed TZif file
type Zone struct {
	Name        string
	Version     byte
	Transitions []Transition
	Types       []LocalTimeType
	Leaps       []LeapSecond
	// Footer is the POSIX TZ string describing time after the last transition
	Footer string

	rule *posixRule
}

// ttinfo is the on-disk local time type record
type ttinfo struct {
	Utoff  int32
	IsDST  uint8
	Desigi uint8
}

// Load parses TZif file at path
func Load(path string) (*Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	z, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	z.Name = path
	return z, nil
}

// LoadName parses named zone, such as "Europe/Dublin", from ZoneinfoDir
func LoadName(name string) (*Zone, error) {
	z, err := Load(filepath.Join(ZoneinfoDir, name))
	if err != nil {
		return nil, err
	}
	z.Name = name
	return z, nil
}

func readHeader(r io.Reader) (Header, byte, error) {
	var hdr Header
	// 4-byte magic "TZif"
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != magicHeader {
		return hdr, 0, ErrBadData
	}
	// 1-byte version, then 15 bytes of padding
	p := make([]byte, 16)
	if _, err := io.ReadFull(r, p); err != nil {
		return hdr, 0, ErrBadData
	}
	version := p[0]
	if version != 0 && version != '2' && version != '3' && version != '4' {
		return hdr, 0, ErrUnsupportedVersion
	}
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return hdr, 0, ErrBadData
	}
	if hdr.TypeCnt == 0 {
		return hdr, 0, ErrBadData
	}
	return hdr, version, nil
}

// Parse reads TZif data of any version.
// For version 2 and later only the 64-bit body and the footer are used.
func Parse(r io.Reader) (*Zone, error) {
	hdr, version, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	z := &Zone{Version: version}
	if version == 0 {
		if err := z.readBody(r, hdr, 4); err != nil {
			return nil, err
		}
		return z, nil
	}

	// skip the version 1 body completely, it's repeated with 64-bit times
	skip := int64(hdr.TimeCnt)*5 + int64(hdr.TypeCnt)*6 + int64(hdr.CharCnt) +
		int64(hdr.LeapCnt)*8 + int64(hdr.IsStdCnt) + int64(hdr.IsUtcCnt)
	if n, _ := io.CopyN(io.Discard, r, skip); n != skip {
		return nil, ErrBadData
	}
	hdr, _, err = readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := z.readBody(r, hdr, 8); err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	footer, err := extractFooter(rest)
	if err != nil {
		return nil, err
	}
	if err := z.SetFooter(footer); err != nil {
		return nil, err
	}
	return z, nil
}

// footer is enclosed between two new lines
func extractFooter(rest []byte) (string, error) {
	if len(rest) == 0 {
		return "", nil
	}
	if rest[0] != '\n' {
		return "", ErrBadData
	}
	for i := 1; i < len(rest); i++ {
		if rest[i] == '\n' {
			return string(rest[1:i]), nil
		}
	}
	return "", ErrBadData
}

func (z *Zone) readBody(r io.Reader, hdr Header, timeSize int) error {
	z.Transitions = make([]Transition, hdr.TimeCnt)
	for i := range z.Transitions {
		if timeSize == 4 {
			var t int32
			if err := binary.Read(r, binary.BigEndian, &t); err != nil {
				return ErrBadData
			}
			z.Transitions[i].When = int64(t)
		} else {
			if err := binary.Read(r, binary.BigEndian, &z.Transitions[i].When); err != nil {
				return ErrBadData
			}
		}
	}
	for i := range z.Transitions {
		var idx uint8
		if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
			return ErrBadData
		}
		if uint32(idx) >= hdr.TypeCnt {
			return ErrBadData
		}
		z.Transitions[i].Type = idx
	}

	infos := make([]ttinfo, hdr.TypeCnt)
	if err := binary.Read(r, binary.BigEndian, infos); err != nil {
		return ErrBadData
	}
	chars := make([]byte, hdr.CharCnt)
	if _, err := io.ReadFull(r, chars); err != nil {
		return ErrBadData
	}
	z.Types = make([]LocalTimeType, len(infos))
	for i, info := range infos {
		name, err := designation(chars, int(info.Desigi))
		if err != nil {
			return err
		}
		z.Types[i] = LocalTimeType{Offset: info.Utoff, IsDST: info.IsDST != 0, Name: name}
	}

	z.Leaps = make([]LeapSecond, 0, hdr.LeapCnt)
	for i := 0; i < int(hdr.LeapCnt); i++ {
		var l LeapSecond
		if timeSize == 4 {
			lsv0 := []uint32{0, 0}
			if err := binary.Read(r, binary.BigEndian, &lsv0); err != nil {
				return ErrBadData
			}
			l.Tleap = uint64(lsv0[0])
			l.Nleap = int32(lsv0[1])
		} else if err := binary.Read(r, binary.BigEndian, &l); err != nil {
			return ErrBadData
		}
		z.Leaps = append(z.Leaps, l)
	}

	// standard/wall and UT/local indicators only matter for POSIX-style rules without a footer
	skip := int64(hdr.IsStdCnt) + int64(hdr.IsUtcCnt)
	if n, _ := io.CopyN(io.Discard, r, skip); n != skip {
		return ErrBadData
	}
	return nil
}

func designation(chars []byte, idx int) (string, error) {
	if idx >= len(chars) {
		return "", ErrBadData
	}
	for i := idx; i < len(chars); i++ {
		if chars[i] == 0 {
			return string(chars[idx:i]), nil
		}
	}
	return "", ErrBadData
}

// SetFooter replaces POSIX TZ rule used after the last transition
func (z *Zone) SetFooter(footer string) error {
	if footer == "" {
		z.Footer = ""
		z.rule = nil
		return nil
	}
	rule, err := parseRule(footer)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadFooter, footer, err)
	}
	z.Footer = footer
	z.rule = rule
	return nil
}

// Lookup returns local time type in effect at utcSecs
func (z *Zone) Lookup(utcSecs int64) LocalTimeType {
	n := len(z.Transitions)
	if n == 0 {
		if z.rule != nil {
			return z.rule.lookup(utcSecs)
		}
		if len(z.Types) == 0 {
			return LocalTimeType{Name: "UTC"}
		}
		return z.Types[0]
	}
	if utcSecs < z.Transitions[0].When {
		return z.firstStandard()
	}
	i := sort.Search(n, func(i int) bool { return z.Transitions[i].When > utcSecs }) - 1
	if i == n-1 && z.rule != nil {
		return z.rule.lookup(utcSecs)
	}
	return z.Types[z.Transitions[i].Type]
}

func (z *Zone) firstStandard() LocalTimeType {
	for _, t := range z.Types {
		if !t.IsDST {
			return t
		}
	}
	return z.Types[0]
}

// Offset implements zone.Timezone
func (z *Zone) Offset(utcSecs int64) int32 {
	return z.Lookup(utcSecs).Offset
}

// ActiveRule implements zone.Timezone
func (z *Zone) ActiveRule(utcSecs int64) (zone.Rule, bool) {
	t := z.Lookup(utcSecs)
	return zone.Rule{Name: t.Name, Offset: t.Offset, IsDST: t.IsDST}, true
}

// ToUTC implements zone.Timezone
func (z *Zone) ToUTC(localSecs int64) int64 {
	return zone.LocalToUTC(z, localSecs)
}

// LeapSeconds returns leap second records of the zone
func (z *Zone) LeapSeconds() []LeapSecond {
	return z.Leaps
}

// Latest returns the latest leap second which happened before t
func (z *Zone) Latest(t time.Time) (LeapSecond, bool) {
	res := LeapSecond{}
	found := false
	for _, l := range z.Leaps {
		if l.Time().Before(t) && (!found || l.Time().After(res.Time())) {
			res = l
			found = true
		}
	}
	return res, found
}
