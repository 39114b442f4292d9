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

package uptime

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type sequence struct {
	values []uint32
	pos    int
}

func (s *sequence) Ticks() uint32 {
	v := s.values[s.pos]
	if s.pos < len(s.values)-1 {
		s.pos++
	}
	return v
}

func TestMicrosNoWrap(t *testing.T) {
	u := New(&sequence{values: []uint32{10, 20, 30}})
	require.Equal(t, int64(10), u.Micros())
	require.Equal(t, int64(20), u.Micros())
	require.Equal(t, int64(30), u.Micros())
	require.Equal(t, uint64(0), u.Wraps())
}

func TestMicrosNonDecreasingAcrossWraps(t *testing.T) {
	values := []uint32{
		0, 1000, math.MaxUint32 - 5, math.MaxUint32, 3, 3, 400000,
		math.MaxUint32 - 1, 0, 12, 1 << 31, math.MaxUint32, 7,
	}
	u := New(&sequence{values: values})
	prev := int64(-1)
	for range values {
		got := u.Micros()
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
	require.Equal(t, uint64(3), u.Wraps())
	require.Equal(t, int64(3<<32+7), prev)
}

func TestDerivedUnits(t *testing.T) {
	v := uint32(0)
	u := New(Func(func() uint32 { return v }))
	v = math.MaxUint32
	require.Equal(t, int64(math.MaxUint32), u.Micros())
	v = 1500000
	require.Equal(t, int64(1<<32+1500000)/1000, u.Millis())
	require.Equal(t, int64(1<<32+1500000)/1000000, u.Seconds())
	// derived units share the same accumulator
	require.Equal(t, uint64(1), u.Wraps())
}

func TestConcurrentReadersCountWrapOnce(t *testing.T) {
	var calls atomic.Uint32
	// the counter wraps once, after 100 calls
	u := New(Func(func() uint32 {
		n := calls.Add(1)
		if n <= 100 {
			return math.MaxUint32 - 100 + n
		}
		return n
	}))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				u.Micros()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(1), u.Wraps())
}
