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

// Cache remembers fields of the last converted second.
// The key is the second, so two instants that differ only below one second
// share an entry. Cache is not safe for concurrent use, each owner keeps its own.
type Cache struct {
	valid  bool
	secs   int64
	fields Fields

	hits   uint64
	misses uint64
}

// Fields returns the fields for secs, recomputing them only when secs
// differs from the previously requested value
func (c *Cache) Fields(secs int64) Fields {
	if c.valid && c.secs == secs {
		c.hits++
		return c.fields
	}
	c.misses++
	c.fields = ToFields(secs)
	c.secs = secs
	c.valid = true
	return c.fields
}

// Invalidate drops the cached entry
func (c *Cache) Invalidate() {
	c.valid = false
}

// Hits returns number of lookups served from the cache
func (c *Cache) Hits() uint64 {
	return c.hits
}

// Misses returns number of lookups that required conversion
func (c *Cache) Misses() uint64 {
	return c.misses
}
