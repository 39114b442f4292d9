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
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/rtclock/abstime"
	"github.com/facebook/rtclock/rtc"
	"github.com/facebook/rtclock/zone"
)

var errNotEnoughData = fmt.Errorf("not enough data points")

// residuals this large mean hardware time was changed behind our back
const maxResidual = time.Hour

// DataPoint is what we record at every calibrated resync
type DataPoint struct {
	// HardwareUS is hardware time read at resync, in microseconds since epoch
	HardwareUS int64
	// ResidualNS is hardware time minus extrapolated time, in nanoseconds
	ResidualNS float64
	// DriftPPB is the drift estimate after the resync, in parts per billion
	DriftPPB float64
}

// SanityCheck checks that the data point looks like a real resync of a running clock
func (d *DataPoint) SanityCheck() error {
	if d.HardwareUS <= 0 {
		return fmt.Errorf("hardware time is %d", d.HardwareUS)
	}
	if math.Abs(d.ResidualNS) >= float64(maxResidual) {
		return fmt.Errorf("residual %v is too large", time.Duration(d.ResidualNS))
	}
	return nil
}

// Clock is what daemon needs from rtc.Clock
type Clock interface {
	Micros() abstime.Instant
	HasBeenSet() bool
	State() rtc.State
	Stats() rtc.Stats
}

// Daemon is a component of rtclockd which watches the clock, fires alarms and reports stats
type Daemon struct {
	cfg   *Config
	clock Clock
	local *zone.Local
	state *daemonState
	stats StatsServer
	l     Logger

	// OnAlarm is called for every alarm that fires, with local time. Set before Run.
	OnAlarm func(a *Alarm, at abstime.Instant)
}

// New creates new Daemon and registers its counters. cfg must be validated with EvalAndValidate.
func New(cfg *Config, clock Clock, local *zone.Local, stats StatsServer, l Logger) *Daemon {
	s := &Daemon{
		cfg:   cfg,
		clock: clock,
		local: local,
		state: newDaemonState(cfg.RingSize),
		stats: stats,
		l:     l,
	}
	// time
	s.stats.SetCounter("utc_s", 0)
	s.stats.SetCounter("local_s", 0)
	s.stats.SetCounter("zone_offset_s", 0)
	s.stats.SetCounter("has_been_set", 0)
	s.stats.SetCounter("state", 0)
	// values collected from the clock
	s.stats.SetCounter("syncs", 0)
	s.stats.SetCounter("sync_errors", 0)
	s.stats.SetCounter("write_errors", 0)
	s.stats.SetCounter("servo_state", 0)
	s.stats.SetCounter("last_residual_ns", 0)
	s.stats.SetCounter("drift_ppb", 0)
	// calculated values
	s.stats.SetCounter("error_ns", 0)
	s.stats.SetCounter("holdover_ppb", 0)
	// error counters
	s.stats.SetCounter("processing_error", 0)
	s.stats.SetCounter("data_sanity_check_error", 0)
	// aggregated values
	s.stats.SetCounter("residual_ns.abs_max", 0)
	s.stats.SetCounter("drift_ppb.abs_max", 0)
	for _, a := range cfg.alarms {
		s.stats.SetCounter("alarm."+a.Name, 0)
	}
	return s
}

// OnSync records a resync. It is meant to be registered with rtc.WithSyncHook.
func (s *Daemon) OnSync(ev rtc.SyncEvent) {
	if ev.Err != nil || !ev.Calibrated {
		return
	}
	data := &DataPoint{
		HardwareUS: int64(ev.Hardware),
		ResidualNS: float64(ev.Residual),
		DriftPPB:   s.clock.Stats().DriftPPB,
	}
	if err := data.SanityCheck(); err != nil {
		log.Warningf("Dropping data point: %v", err)
		s.stats.UpdateCounterBy("data_sanity_check_error", 1)
		return
	}
	s.state.pushDataPoint(data)
}

func (s *Daemon) calc() error {
	lastN := s.state.takeDataPoint(s.cfg.RingSize)
	if len(lastN) != s.cfg.RingSize {
		return fmt.Errorf("%w: want %d, got %d", errNotEnoughData, s.cfg.RingSize, len(lastN))
	}
	params := prepareMathParameters(lastN)
	logSample := &LogSample{
		ResidualNS:       params["residual"][0],
		ResidualMeanNS:   mean(params["residual"]),
		ResidualStddevNS: stddev(params["residual"]),
		DriftPPB:         params["drift"][0],
		DriftMeanPPB:     mean(params["drift"]),
		DriftStddevPPB:   stddev(params["drift"]),
	}
	values := mapOfInterface(params)
	errNS, err := evaluate(s.cfg.Math.errorExpr, values)
	if err != nil {
		return fmt.Errorf("calculating error: %w", err)
	}
	holdover, err := evaluate(s.cfg.Math.driftExpr, values)
	if err != nil {
		return fmt.Errorf("calculating drift: %w", err)
	}
	logSample.ErrorNS = errNS
	logSample.HoldoverPPB = holdover
	if err := s.l.Log(logSample); err != nil {
		log.Errorf("failed to log sample: %v", err)
	}
	s.stats.SetCounter("error_ns", int64(errNS))
	s.stats.SetCounter("holdover_ppb", int64(holdover))

	maxDp := s.state.aggregateDataPointsMax(s.cfg.RingSize)
	s.stats.SetCounter("residual_ns.abs_max", int64(maxDp.ResidualNS))
	s.stats.SetCounter("drift_ppb.abs_max", int64(maxDp.DriftPPB))
	return nil
}

func (s *Daemon) checkAlarms(now abstime.Instant) {
	if !s.clock.HasBeenSet() {
		// alarms get rescheduled once time is trustworthy
		for _, a := range s.cfg.alarms {
			a.Reset()
		}
		return
	}
	for _, a := range s.cfg.alarms {
		if !a.Check(now) {
			continue
		}
		log.Infof("Alarm %s fired at %s", a, now)
		s.stats.UpdateCounterBy("alarm."+a.Name, 1)
		if s.OnAlarm != nil {
			s.OnAlarm(a, now)
		}
	}
}

func (s *Daemon) doWork() error {
	utc := s.local.UTC()
	var offset int32
	if tz := s.local.Zone(); tz != nil {
		offset = tz.Offset(utc.Seconds())
	}
	now := utc + abstime.FromSeconds(int64(offset))
	s.stats.SetCounter("utc_s", utc.Seconds())
	s.stats.SetCounter("local_s", now.Seconds())
	s.stats.SetCounter("zone_offset_s", int64(offset))
	s.stats.SetFlag("has_been_set", s.clock.HasBeenSet())
	s.stats.SetCounter("state", int64(s.clock.State()))

	cs := s.clock.Stats()
	s.stats.SetCounter("syncs", cs.Syncs)
	s.stats.SetCounter("sync_errors", cs.SyncErrors)
	s.stats.SetCounter("write_errors", cs.WriteErrors)
	s.stats.SetCounter("servo_state", int64(cs.ServoState))
	s.stats.SetCounter("last_residual_ns", cs.LastResidual.Nanoseconds())
	s.stats.SetCounter("drift_ppb", int64(cs.DriftPPB))

	s.checkAlarms(now)

	if s.state.takePending() == 0 {
		return nil
	}
	if err := s.calc(); err != nil {
		if errors.Is(err, errNotEnoughData) {
			log.Debug(err)
			return nil
		}
		return err
	}
	return nil
}

// Run reads the clock every Interval until ctx is cancelled
func (s *Daemon) Run(ctx context.Context) error {
	log.Infof("Running with %d alarms, interval %v", len(s.cfg.alarms), s.cfg.Interval)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		if err := s.doWork(); err != nil {
			log.Errorf("processing: %v", err)
			s.stats.UpdateCounterBy("processing_error", 1)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
