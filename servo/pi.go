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

package servo

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	kpScale = 0.7
	kiScale = 0.3

	maxKpNormMax = 1.0
	maxKiNormMax = 2.0
)

// PIConfig is a PI servo config
type PIConfig struct {
	KpScale    float64
	KpExponent float64
	KpNormMax  float64
	KiScale    float64
	KiExponent float64
	KiNormMax  float64
	// MaxFreq limits the output, ppb
	MaxFreq float64
	// StepThreshold marks samples with a larger offset as a clock step, 0 disables
	StepThreshold time.Duration
	// MinInterval is the shortest extrapolation a sample is accepted for
	MinInterval time.Duration
}

// DefaultPIConfig to create default pi servo config
func DefaultPIConfig() *PIConfig {
	return &PIConfig{
		KpScale:       kpScale,
		KpExponent:    0.0,
		KpNormMax:     maxKpNormMax,
		KiScale:       kiScale,
		KiExponent:    0.0,
		KiNormMax:     maxKiNormMax,
		MaxFreq:       DefaultMaxFreq,
		StepThreshold: 0,
		MinInterval:   time.Second,
	}
}

// PI is a proportional-integral frequency estimator.
// Every sample is the offset accumulated between the reference and the
// extrapolated time over the given interval, with the previous output already
// applied, so each sample measures the residual frequency error.
type PI struct {
	cfg      *PIConfig
	kp       float64
	ki       float64
	drift    float64
	lastFreq float64
	count    int
	state    State
}

// NewPI creates a servo starting from freq ppb
func NewPI(cfg *PIConfig, freq float64) *PI {
	if cfg == nil {
		cfg = DefaultPIConfig()
	}
	pi := &PI{
		cfg:      cfg,
		drift:    freq,
		lastFreq: freq,
	}
	pi.SyncInterval(1)
	return pi
}

// SyncInterval adjusts gains to the interval between samples in seconds
func (s *PI) SyncInterval(interval float64) {
	s.kp = s.cfg.KpScale * math.Pow(interval, s.cfg.KpExponent)
	if s.kp > s.cfg.KpNormMax/interval {
		s.kp = s.cfg.KpNormMax / interval
	}

	s.ki = s.cfg.KiScale * math.Pow(interval, s.cfg.KiExponent)
	if s.ki > s.cfg.KiNormMax/interval {
		s.ki = s.cfg.KiNormMax / interval
	}
}

// SetLastFreq function to reset last freq
func (s *PI) SetLastFreq(freq float64) {
	s.lastFreq = freq
	s.drift = freq
}

// LastFreq returns the latest output
func (s *PI) LastFreq() float64 {
	return s.lastFreq
}

// State returns the latest state
func (s *PI) State() State {
	return s.state
}

// Reset makes the next sample start estimation over
func (s *PI) Reset() {
	s.count = 0
	s.state = StateInit
}

func (s *PI) clamp(ppb float64) (float64, bool) {
	if ppb < -s.cfg.MaxFreq {
		return -s.cfg.MaxFreq, true
	}
	if ppb > s.cfg.MaxFreq {
		return s.cfg.MaxFreq, true
	}
	return ppb, false
}

// Sample function to calculate frequency based on the offset.
// Positive offset means the reference ran ahead of the extrapolation.
func (s *PI) Sample(offset time.Duration, elapsed time.Duration) (float64, State) {
	if elapsed <= 0 || elapsed < s.cfg.MinInterval {
		log.Warningf("servo Sample is called too often, only %v passed", elapsed)
		return s.lastFreq, s.state
	}
	sOffset := offset
	if sOffset < 0 {
		sOffset = -sOffset
	}
	if s.cfg.StepThreshold > 0 && sOffset > s.cfg.StepThreshold {
		// the reference was stepped, this sample says nothing about frequency
		s.count = 0
		s.state = StateJump
		return s.lastFreq, s.state
	}

	residual := float64(offset) / float64(elapsed) * 1e9
	var ppb float64
	switch s.count {
	case 0:
		s.drift, _ = s.clamp(s.drift + residual)
		ppb = s.drift
		s.count = 1
		s.state = StateInit
	default:
		kiTerm := s.ki * residual
		var clamped bool
		ppb, clamped = s.clamp(s.kp*residual + s.drift + kiTerm)
		if !clamped {
			s.drift += kiTerm
		}
		s.state = StateLocked
	}
	s.lastFreq = ppb
	return ppb, s.state
}
