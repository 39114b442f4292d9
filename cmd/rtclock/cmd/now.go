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
	"time"

	"github.com/fatih/color"
	"github.com/shirou/gopsutil/host"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/rtclock/abstime"
	"github.com/facebook/rtclock/calendar"
	"github.com/facebook/rtclock/rtc"
	"github.com/facebook/rtclock/rtcdev"
	"github.com/facebook/rtclock/zone"
)

// local instants are printed without zone designator
const localLayout = "2006-01-02 15:04:05.000000"

var okString = color.GreenString("[ OK ]")
var warnString = color.YellowString("[WARN]")

func init() {
	RootCmd.AddCommand(nowCmd)
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Print current time as seen through the clock",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := nowRun(); err != nil {
			log.Fatal(err)
		}
	},
}

func printNow(c *rtc.Clock, local *zone.Local) {
	utc := local.UTC()
	t := abstime.New(local)
	fmt.Printf("UTC:   %s\n", utc)
	fmt.Printf("Local: %s\n", t.Micros().Time().Format(localLayout))
	fmt.Printf("       %s %s\n", t.Format(calendar.LongDate), t.Format(calendar.LongTime))
	if r, ok := local.Rule(); ok {
		fmt.Printf("Zone:  %s\n", r)
	} else {
		fmt.Printf("Zone:  UTC\n")
	}
	if c.HasBeenSet() {
		fmt.Printf("%s clock has been set (%s)\n", okString, c.State())
	} else {
		fmt.Printf("%s clock has not been set (%s)\n", warnString, c.State())
	}
	if err := c.LastError(); err != nil {
		fmt.Printf("%s last error: %v\n", warnString, err)
	}
}

func voltageLine(flags rtcdev.VoltageFlags) string {
	if flags != 0 {
		return fmt.Sprintf("%s voltage: %s", warnString, flags)
	}
	return fmt.Sprintf("%s voltage: %s", okString, flags)
}

func nowRun() error {
	c, local, hw, err := openClock()
	if err != nil {
		return err
	}
	defer hw.Close()
	printNow(c, local)

	if flags, ok := hw.Voltage(); ok {
		fmt.Println(voltageLine(flags))
	}

	bootTime, err := host.BootTime()
	if err != nil {
		log.Debugf("reading host boot time: %v", err)
		return nil
	}
	boot := time.Unix(int64(bootTime), 0).UTC()
	fmt.Printf("Host booted at %s, %v ago\n", boot.Format(time.RFC3339), local.UTC().Time().Sub(boot).Round(time.Second))
	return nil
}
