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
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DeviceSystem selects the system realtime clock instead of an RTC device
const DeviceSystem = "system"

// AlarmConfig is a recurring local time event, exactly one of Daily and Yearly is set
type AlarmConfig struct {
	Name   string
	Daily  string // "hh:mm:ss"
	Yearly string // "mm-dd hh:mm:ss"
}

// Config represents configuration we expect to read from file
type Config struct {
	Device         string        // RTC device path or "system"
	Zone           string        // TZif file path or zone name, empty means UTC
	Interval       time.Duration // how often do we read the clock, check alarms and update stats
	SyncInterval   time.Duration // how stale the clock may get before it resyncs from hardware, 0 disables
	DriftServo     bool          // estimate hardware drift and correct extrapolation between resyncs
	RingSize       int           // must be at least the size of N samples we use in expressions
	Math           Math          // configuration for calculation we'll be doing
	Alarms         []AlarmConfig // recurring events
	MonitoringPort int           // port for JSON and Prometheus stats, 0 disables

	alarms []*Alarm
}

// EvalAndValidate makes sure config is valid and evaluates expressions for further use.
func (c *Config) EvalAndValidate() error {
	if c.Device == "" {
		return fmt.Errorf("bad config: 'device' must be specified")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("bad config: 'interval' must be >0")
	}
	if c.Interval > time.Minute {
		return fmt.Errorf("bad config: 'interval' is over a minute")
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("bad config: 'syncinterval' must be >=0")
	}
	if c.RingSize < 2 {
		return fmt.Errorf("bad config: 'ringsize' must be >1")
	}
	if c.MonitoringPort < 0 || c.MonitoringPort > 65535 {
		return fmt.Errorf("bad config: 'monitoringport' is out of range")
	}
	if err := c.Math.Prepare(); err != nil {
		return err
	}
	seen := map[string]bool{}
	c.alarms = nil
	for _, ac := range c.Alarms {
		if seen[ac.Name] {
			return fmt.Errorf("bad config: duplicate alarm %q", ac.Name)
		}
		seen[ac.Name] = true
		a, err := ParseAlarm(ac)
		if err != nil {
			return fmt.Errorf("bad config: %w", err)
		}
		c.alarms = append(c.alarms, a)
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Config{}
	err = yaml.UnmarshalStrict(data, &c)
	return &c, err
}
