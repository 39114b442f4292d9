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
	"container/ring"
	"math"
	"sync"
)

// state of the daemon, guarded by mutex
type daemonState struct {
	sync.Mutex

	dataPoints *ring.Ring // residuals collected at resyncs
	// data points pushed since they were last processed
	pending int
}

func newDaemonState(ringSize int) *daemonState {
	s := &daemonState{
		dataPoints: ring.New(ringSize),
	}
	// init ring buffer with nils
	for i := 0; i < ringSize; i++ {
		s.dataPoints.Value = nil
		s.dataPoints = s.dataPoints.Next()
	}
	return s
}

func (s *daemonState) pushDataPoint(data *DataPoint) {
	s.Lock()
	defer s.Unlock()
	s.dataPoints.Value = data
	s.dataPoints = s.dataPoints.Next()
	s.pending++
}

// takePending returns how many data points arrived since the previous call
func (s *daemonState) takePending() int {
	s.Lock()
	defer s.Unlock()
	n := s.pending
	s.pending = 0
	return n
}

// takeDataPoint returns up to n latest data points, newest first
func (s *daemonState) takeDataPoint(n int) []*DataPoint {
	s.Lock()
	defer s.Unlock()
	result := []*DataPoint{}
	r := s.dataPoints.Prev()
	for j := 0; j < n; j++ {
		if r.Value == nil {
			break
		}
		result = append(result, r.Value.(*DataPoint))
		r = r.Prev()
	}
	return result
}

func (s *daemonState) aggregateDataPointsMax(n int) *DataPoint {
	d := &DataPoint{}
	for _, dp := range s.takeDataPoint(n) {
		if math.Abs(dp.ResidualNS) > d.ResidualNS {
			d.ResidualNS = math.Abs(dp.ResidualNS)
		}
		if math.Abs(dp.DriftPPB) > d.DriftPPB {
			d.DriftPPB = math.Abs(dp.DriftPPB)
		}
	}
	return d
}
