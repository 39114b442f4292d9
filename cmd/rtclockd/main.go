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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	sddaemon "github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/facebook/rtclock/clock"
	"github.com/facebook/rtclock/daemon"
	"github.com/facebook/rtclock/rtc"
	"github.com/facebook/rtclock/rtcdev"
	"github.com/facebook/rtclock/servo"
	"github.com/facebook/rtclock/uptime"
	"github.com/facebook/rtclock/zone"
)

func main() {
	var (
		cfg       = &daemon.Config{}
		err       error
		cfgPath   string
		csvLog    bool
		csvPath   string
		verbose   bool
		ppbServo  bool
		alarmSpec string
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "rtclock daemon\n")
		fmt.Fprintf(flag.CommandLine.Output(), "%s\n\nFlags:\n", daemon.MathHelp)
		flag.PrintDefaults()
	}

	flag.StringVar(&cfg.Device, "device", rtcdev.DefaultPath, fmt.Sprintf("RTC device to keep time from, or %q for CLOCK_REALTIME", daemon.DeviceSystem))
	flag.StringVar(&cfg.Zone, "zone", "", "Time zone name or TZif path alarms are evaluated in. Empty means UTC")
	flag.IntVar(&cfg.MonitoringPort, "monitoringport", 21040, "Port to run monitoring server on. 0 means disabled")
	flag.IntVar(&cfg.RingSize, "buffer", daemon.MathDefaultHistory, "Size of ring buffers, must be at least size of largest num of samples used in error and drift formulas")
	flag.StringVar(&cfg.Math.Error, "error", daemon.MathDefaultError, "Math expression for error bound")
	flag.StringVar(&cfg.Math.Drift, "drift", daemon.MathDefaultDrift, "Math expression for holdover drift PPB")
	flag.DurationVar(&cfg.Interval, "i", time.Second, "Interval at which we read the clock, check alarms and update stats")
	flag.DurationVar(&cfg.SyncInterval, "I", 11*time.Minute, "Interval at which clock resyncs from hardware. 0 means only on demand")
	flag.BoolVar(&ppbServo, "servo", false, "Estimate hardware drift between resyncs")
	flag.StringVar(&alarmSpec, "alarm", "", "Daily alarm, hh:mm:ss")

	flag.StringVar(&cfgPath, "cfg", "", "Path to config")
	flag.BoolVar(&csvLog, "csvlog", false, "Log all the metrics as CSV to log")
	flag.StringVar(&csvPath, "csvpath", "", "write CSV log into this file")
	flag.BoolVar(&verbose, "verbose", false, "Verbose logging")

	flag.Parse()

	log.SetReportCaller(true)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if csvPath != "" && !csvLog {
		log.Fatalf("'csvpath' flag requires 'csvlog' flag")
	}
	if cfgPath != "" {
		log.Warningf("using config from %s, flag values are ignored", cfgPath)
		cfg, err = daemon.ReadConfig(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		cfg.DriftServo = ppbServo
		if alarmSpec != "" {
			cfg.Alarms = append(cfg.Alarms, daemon.AlarmConfig{Name: "daily", Daily: alarmSpec})
		}
	}
	if err := cfg.EvalAndValidate(); err != nil {
		log.Fatal(err)
	}
	log.Debugf("Config: %+v", *cfg)

	// set up sample logging
	w := log.StandardLogger().Writer()
	defer w.Close()
	var l daemon.Logger = daemon.NewDummyLogger(w)
	if csvLog {
		csvW := io.Writer(w)
		// set up logging of CSV samples to file
		if csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			// write both to stderr and file
			csvW = io.MultiWriter(w, f)
		}
		l = daemon.NewCSVLogger(csvW)
	}

	hw, err := daemon.OpenHardware(cfg.Device)
	if err != nil {
		log.Fatal(err)
	}
	defer hw.Close()
	if flags, ok := hw.Voltage(); ok && flags != 0 {
		log.Warningf("%s reports %s, time may be invalid", cfg.Device, flags)
	}
	tz, err := daemon.LoadZone(cfg.Zone)
	if err != nil {
		log.Fatalf("loading zone %q: %v", cfg.Zone, err)
	}

	var d *daemon.Daemon
	opts := []rtc.Option{
		rtc.WithUpdateInterval(cfg.SyncInterval),
		rtc.WithLogger(log.WithField("device", cfg.Device)),
		// hook only runs from clock reads, which start after d is assigned
		rtc.WithSyncHook(func(ev rtc.SyncEvent) { d.OnSync(ev) }),
	}
	if cfg.DriftServo {
		opts = append(opts, rtc.WithDriftServo(servo.NewPI(servo.DefaultPIConfig(), 0)))
	}
	c := rtc.New(hw.HardwareClock, uptime.New(&clock.MonotonicRaw{}), opts...)

	stats := daemon.NewJSONStats()
	d = daemon.New(cfg, c, zone.NewLocal(c, tz), stats, l)

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)
	if cfg.MonitoringPort > 0 {
		eg.Go(func() error { return stats.Start(ctx, cfg.MonitoringPort) })
	}
	eg.Go(func() error { return d.Run(ctx) })

	if _, err := sddaemon.SdNotify(false, "READY=1"); err != nil {
		log.Warningf("Failed to notify systemd: %v", err)
	}
	if err := eg.Wait(); err != nil {
		log.Fatal(err)
	}
}
