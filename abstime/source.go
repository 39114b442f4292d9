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

package abstime

// Source holds a linear instant which can be read and replaced
type Source interface {
	Micros() Instant
	SetMicros(Instant)
}

// Adjuster is implemented by sources with their own relative adjustment,
// such as bounded values that wrap or clocks that step hardware
type Adjuster interface {
	AdjustMicros(delta int64)
}

// SetGuard is implemented by sources which need to know that a multi-step
// update is in progress, so readers can ignore the interim state
type SetGuard interface {
	BeginSet()
	EndSet()
}

// Matcher is implemented by sources which compare against a second in their own way
type Matcher interface {
	IsTime(secs int64) bool
}

// Value is a Source which only changes when set
type Value struct {
	micros Instant
}

// Micros implements Source
func (v *Value) Micros() Instant {
	return v.micros
}

// SetMicros implements Source
func (v *Value) SetMicros(i Instant) {
	v.micros = i
}
