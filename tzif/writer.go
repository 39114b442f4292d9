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
	"encoding/binary"
	"io"
)

// Write dumps zone as TZif data of version ver (0, '2' or '3').
// Version 2 and later repeat the body with 64-bit times and append the footer.
func Write(f io.Writer, ver byte, z *Zone) error {
	if ver != 0 && ver != '2' && ver != '3' {
		return ErrUnsupportedVersion
	}
	if len(z.Types) == 0 {
		return ErrBadData
	}

	chars, idx := designations(z.Types)
	if err := writeBlock(f, ver, z, chars, idx, 4); err != nil {
		return err
	}
	if ver == 0 {
		return nil
	}
	if err := writeBlock(f, ver, z, chars, idx, 8); err != nil {
		return err
	}
	_, err := io.WriteString(f, "\n"+z.Footer+"\n")
	return err
}

// designations builds NUL-separated abbreviation table shared by equal names
func designations(types []LocalTimeType) ([]byte, []uint8) {
	var chars bytes.Buffer
	seen := map[string]uint8{}
	idx := make([]uint8, len(types))
	for i, t := range types {
		pos, ok := seen[t.Name]
		if !ok {
			pos = uint8(chars.Len())
			seen[t.Name] = pos
			chars.WriteString(t.Name)
			chars.WriteByte(0)
		}
		idx[i] = pos
	}
	return chars.Bytes(), idx
}

func writeBlock(f io.Writer, ver byte, z *Zone, chars []byte, idx []uint8, timeSize int) error {
	hdr := Header{
		LeapCnt: uint32(len(z.Leaps)),
		TimeCnt: uint32(len(z.Transitions)),
		TypeCnt: uint32(len(z.Types)),
		CharCnt: uint32(len(chars)),
	}
	// magic, version and 15 bytes of padding
	pre := make([]byte, 20)
	copy(pre, magicHeader)
	pre[4] = ver
	if _, err := f.Write(pre); err != nil {
		return err
	}
	if err := binary.Write(f, binary.BigEndian, &hdr); err != nil {
		return err
	}

	for _, t := range z.Transitions {
		var err error
		if timeSize == 4 {
			err = binary.Write(f, binary.BigEndian, int32(t.When))
		} else {
			err = binary.Write(f, binary.BigEndian, t.When)
		}
		if err != nil {
			return err
		}
	}
	for _, t := range z.Transitions {
		if err := binary.Write(f, binary.BigEndian, t.Type); err != nil {
			return err
		}
	}
	for i, t := range z.Types {
		info := ttinfo{Utoff: t.Offset, Desigi: idx[i]}
		if t.IsDST {
			info.IsDST = 1
		}
		if err := binary.Write(f, binary.BigEndian, &info); err != nil {
			return err
		}
	}
	if _, err := f.Write(chars); err != nil {
		return err
	}
	for _, l := range z.Leaps {
		if timeSize == 4 {
			lsv0 := []uint32{uint32(l.Tleap), uint32(l.Nleap)}
			if err := binary.Write(f, binary.BigEndian, &lsv0); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(f, binary.BigEndian, &l); err != nil {
			return err
		}
	}
	return nil
}
