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
	"github.com/facebook/rtclock/zone"
)

var setPrintFlag bool

func init() {
	RootCmd.AddCommand(setCmd)
	setCmd.Flags().BoolVarP(&setPrintFlag, "print", "p", false, "print clock status after changes")
}

var setCmd = &cobra.Command{
	Use:   "set <time>",
	Short: "Set the clock. Time is RFC3339 or local 'yyyy-mm-dd hh:mm:ss'",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if err := setRun(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

// setTime sets local from either an absolute RFC3339 time or a wall clock time in local zone
func setTime(local *zone.Local, value string) error {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		local.Source().SetMicros(abstime.FromTime(t))
		return nil
	}
	t, err := time.Parse(time.DateTime, value)
	if err != nil {
		return fmt.Errorf("parsing %q: want RFC3339 or %q", value, time.DateTime)
	}
	abstime.New(local).SetDateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	return nil
}

func setRun(value string) error {
	c, local, hw, err := openClock()
	if err != nil {
		return err
	}
	defer hw.Close()
	if err := setTime(local, value); err != nil {
		return err
	}
	if err := c.LastError(); err != nil {
		return fmt.Errorf("writing hardware clock: %w", err)
	}
	fmt.Printf("Clock set to %s\n", local.UTC())
	if setPrintFlag {
		printNow(c, local)
	}
	return nil
}
