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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvalAndValidate(t *testing.T) {
	c := &Config{
		Math: Math{
			Error: "1",
			Drift: "1",
		},
	}
	require.Equal(t, fmt.Errorf("bad config: 'device' must be specified"), c.EvalAndValidate())

	c.Device = DeviceSystem
	require.Equal(t, fmt.Errorf("bad config: 'interval' must be >0"), c.EvalAndValidate())

	c.Interval = 2 * time.Minute
	require.Equal(t, fmt.Errorf("bad config: 'interval' is over a minute"), c.EvalAndValidate())

	c.Interval = time.Second
	c.SyncInterval = -time.Second
	require.Equal(t, fmt.Errorf("bad config: 'syncinterval' must be >=0"), c.EvalAndValidate())

	c.SyncInterval = time.Minute
	require.Equal(t, fmt.Errorf("bad config: 'ringsize' must be >1"), c.EvalAndValidate())

	c.RingSize = 10
	c.MonitoringPort = 70000
	require.Equal(t, fmt.Errorf("bad config: 'monitoringport' is out of range"), c.EvalAndValidate())

	c.MonitoringPort = 4269
	require.NoError(t, c.EvalAndValidate())
}

func TestEvalAndValidateMath(t *testing.T) {
	c := &Config{
		Device:   DeviceSystem,
		Interval: time.Second,
		RingSize: 10,
		Math: Math{
			Error: "mean(offset, 10)",
			Drift: MathDefaultDrift,
		},
	}
	require.ErrorContains(t, c.EvalAndValidate(), "evaluating Error")
	c.Math.Error = MathDefaultError
	c.Math.Drift = "mean(drift"
	require.ErrorContains(t, c.EvalAndValidate(), "evaluating Drift")
}

func TestEvalAndValidateAlarms(t *testing.T) {
	c := &Config{
		Device:   DeviceSystem,
		Interval: time.Second,
		RingSize: 10,
		Math: Math{
			Error: MathDefaultError,
			Drift: MathDefaultDrift,
		},
		Alarms: []AlarmConfig{
			{Name: "wake", Daily: "07:30:00"},
			{Name: "xmas", Yearly: "12-25 09:00:00"},
		},
	}
	require.NoError(t, c.EvalAndValidate())
	require.Len(t, c.alarms, 2)
	// validation is repeatable
	require.NoError(t, c.EvalAndValidate())
	require.Len(t, c.alarms, 2)

	c.Alarms = append(c.Alarms, AlarmConfig{Name: "wake", Daily: "08:30:00"})
	require.Equal(t, fmt.Errorf("bad config: duplicate alarm %q", "wake"), c.EvalAndValidate())

	c.Alarms[2] = AlarmConfig{Name: "broken", Daily: "25:00:00"}
	require.ErrorContains(t, c.EvalAndValidate(), "out of range")
}

func TestReadConfig(t *testing.T) {
	expected := &Config{
		Device:       "/dev/rtc1",
		Zone:         "Europe/London",
		Interval:     time.Second,
		SyncInterval: 11 * time.Minute,
		DriftServo:   true,
		RingSize:     30,
		Math: Math{
			Error: "abs(mean(residual, 30))",
			Drift: "stddev(drift, 30)",
		},
		Alarms: []AlarmConfig{
			{Name: "backup", Daily: "03:00:00"},
		},
		MonitoringPort: 21040,
	}
	cfgData := `device: /dev/rtc1
zone: Europe/London
interval: 1s
syncinterval: 11m
driftservo: true
ringsize: 30
math:
  error: "abs(mean(residual, 30))"
  drift: "stddev(drift, 30)"
alarms:
  - name: backup
    daily: "03:00:00"
monitoringport: 21040
`
	cfgPath := filepath.Join(t.TempDir(), "rtclockd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgData), 0644))

	cfg, err := ReadConfig(cfgPath)
	require.NoError(t, err)
	require.Equal(t, expected, cfg)
	require.NoError(t, cfg.EvalAndValidate())
}

func TestReadConfigUnknownField(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rtclockd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("device: system\nphc: /dev/ptp0\n"), 0644))
	_, err := ReadConfig(cfgPath)
	require.Error(t, err)

	_, err = ReadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
