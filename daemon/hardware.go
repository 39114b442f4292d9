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
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/rtclock/clock"
	"github.com/facebook/rtclock/rtc"
	"github.com/facebook/rtclock/rtcdev"
	"github.com/facebook/rtclock/tzif"
	"github.com/facebook/rtclock/zone"
)

// Hardware is the clock named by Config.Device
type Hardware struct {
	rtc.HardwareClock
	// Device is set when the clock is an RTC character device
	Device *rtcdev.Device
}

// OpenHardware opens RTC device by path, or CLOCK_REALTIME for DeviceSystem
func OpenHardware(device string) (*Hardware, error) {
	if device == DeviceSystem {
		return &Hardware{HardwareClock: clock.NewRealtime()}, nil
	}
	dev, err := rtcdev.Open(device)
	if err != nil {
		return nil, err
	}
	return &Hardware{HardwareClock: dev, Device: dev}, nil
}

// Voltage reads RTC voltage flags. ok is false for system clock or when flags can't be read.
func (h *Hardware) Voltage() (flags rtcdev.VoltageFlags, ok bool) {
	if h.Device == nil {
		return 0, false
	}
	flags, err := h.Device.Voltage()
	if err != nil {
		log.Debugf("reading voltage flags: %v", err)
		return 0, false
	}
	return flags, true
}

// Close releases the device
func (h *Hardware) Close() error {
	if h.Device == nil {
		return nil
	}
	return h.Device.Close()
}

// LoadTZif loads zone by absolute path or by name under tzif.ZoneinfoDir
func LoadTZif(name string) (*tzif.Zone, error) {
	if filepath.IsAbs(name) {
		return tzif.Load(name)
	}
	return tzif.LoadName(name)
}

// LoadZone is LoadTZif where empty name means UTC, which is nil Timezone
func LoadZone(name string) (zone.Timezone, error) {
	if name == "" {
		return nil, nil
	}
	z, err := LoadTZif(name)
	if err != nil {
		return nil, err
	}
	return z, nil
}
