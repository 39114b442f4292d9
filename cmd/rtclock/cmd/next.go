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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/rtclock/abstime"
	"github.com/facebook/rtclock/daemon"
)

var (
	nextDailyFlag  string
	nextYearlyFlag string
	nextCountFlag  int
)

func init() {
	RootCmd.AddCommand(nextCmd)
	nextCmd.Flags().StringVarP(&nextDailyFlag, "daily", "D", "", "daily time, hh:mm:ss")
	nextCmd.Flags().StringVarP(&nextYearlyFlag, "yearly", "Y", "", "yearly time, mm-dd hh:mm:ss")
	nextCmd.Flags().IntVarP(&nextCountFlag, "count", "n", 1, "number of occurrences to print")
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print next local occurrences of a daily or yearly time",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := nextRun(); err != nil {
			log.Fatal(err)
		}
	},
}

// occurrences returns n next occurrences of the alarm starting at now
func occurrences(a *daemon.Alarm, now abstime.Instant, n int) []abstime.Instant {
	a.Reset()
	a.Check(now)
	result := []abstime.Instant{}
	for i := 0; i < n; i++ {
		next, _ := a.Next()
		result = append(result, next)
		a.Check(next)
	}
	return result
}

func nextRun() error {
	a, err := daemon.ParseAlarm(daemon.AlarmConfig{Name: "next", Daily: nextDailyFlag, Yearly: nextYearlyFlag})
	if err != nil {
		return err
	}
	_, local, hw, err := openClock()
	if err != nil {
		return err
	}
	defer hw.Close()
	now := local.Micros()
	for _, at := range occurrences(a, now, nextCountFlag) {
		in := time.Duration(at-now) * time.Microsecond
		fmt.Printf("%s (in %v)\n", at.Time().Format(localLayout), in.Round(time.Second))
	}
	return nil
}
