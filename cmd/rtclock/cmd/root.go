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

package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/rtclock/clock"
	"github.com/facebook/rtclock/daemon"
	"github.com/facebook/rtclock/rtc"
	"github.com/facebook/rtclock/uptime"
	"github.com/facebook/rtclock/zone"
)

// RootCmd is a main entry point. It's exported so rtclock could be easily extended without touching core functionality.
var RootCmd = &cobra.Command{
	Use:   "rtclock",
	Short: "Read, set and inspect the real time clock",
}

// flags
var (
	rootVerboseFlag bool
	rootDeviceFlag  string
	rootZoneFlag    string
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().StringVarP(&rootDeviceFlag, "device", "d", daemon.DeviceSystem, fmt.Sprintf("RTC device, or %q for CLOCK_REALTIME", daemon.DeviceSystem))
	RootCmd.PersistentFlags().StringVarP(&rootZoneFlag, "zone", "z", "", "Time zone name or TZif file path. Empty means UTC")
}

// ConfigureVerbosity configures log verbosity based on parsed flags. Needs to be called by any subcommand.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openClock builds the local clock over the device and zone from flags.
// Closing the returned hardware releases the device.
func openClock() (*rtc.Clock, *zone.Local, *daemon.Hardware, error) {
	hw, err := daemon.OpenHardware(rootDeviceFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	tz, err := daemon.LoadZone(rootZoneFlag)
	if err != nil {
		hw.Close()
		return nil, nil, nil, fmt.Errorf("loading zone %q: %w", rootZoneFlag, err)
	}
	// the device itself is passed so rtc.Stepper stays visible
	c := rtc.New(hw.HardwareClock, uptime.New(&clock.MonotonicRaw{}), rtc.WithLogger(log.WithField("device", rootDeviceFlag)))
	return c, zone.NewLocal(c, tz), hw, nil
}
