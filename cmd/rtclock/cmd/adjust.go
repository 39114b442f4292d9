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
)

var adjustPrintFlag bool

func init() {
	RootCmd.AddCommand(adjustCmd)
	adjustCmd.Flags().BoolVarP(&adjustPrintFlag, "print", "p", false, "print clock status after changes")
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <duration>",
	Short: "Move the clock by signed duration, such as -1.5s or 2h",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		step, err := time.ParseDuration(args[0])
		if err != nil {
			log.Fatal(err)
		}
		if err := adjustRun(step); err != nil {
			log.Fatal(err)
		}
	},
}

func adjustRun(step time.Duration) error {
	c, local, hw, err := openClock()
	if err != nil {
		return err
	}
	defer hw.Close()
	before := local.UTC()
	fmt.Printf("Stepping the clock by %v\n", step)
	local.AdjustMicros(step.Microseconds())
	if err := c.LastError(); err != nil {
		return fmt.Errorf("stepping hardware clock: %w", err)
	}
	log.Debugf("clock moved from %s to %s", before, local.UTC())
	if adjustPrintFlag {
		printNow(c, local)
	}
	return nil
}
