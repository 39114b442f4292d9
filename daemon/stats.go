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
	"maps"
	"sync"
)

// StatsServer is where daemon publishes its counters
type StatsServer interface {
	SetCounter(key string, val int64)
	UpdateCounterBy(key string, count int64)
	SetFlag(key string, on bool)
	Get() map[string]int64
}

// Stats keeps counters in memory. Keys are never removed, so the set exporters see only grows.
type Stats struct {
	mu       sync.RWMutex
	counters map[string]int64
}

// NewStats returns empty Stats
func NewStats() *Stats {
	return &Stats{counters: map[string]int64{}}
}

// UpdateCounterBy adds count to key
func (s *Stats) UpdateCounterBy(key string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] += count
}

// SetCounter replaces value of key
func (s *Stats) SetCounter(key string, val int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] = val
}

// SetFlag stores a boolean as 0 or 1
func (s *Stats) SetFlag(key string, on bool) {
	var v int64
	if on {
		v = 1
	}
	s.SetCounter(key, v)
}

// Get returns a copy of all counters
func (s *Stats) Get() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.counters)
}

// Reset zeroes all counters, keeping the keys
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.counters {
		s.counters[k] = 0
	}
}
