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
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/facebook/rtclock/clock"
)

var freqSetFlag float64

func init() {
	RootCmd.AddCommand(freqCmd)
	freqCmd.Flags().Float64VarP(&freqSetFlag, "set", "s", math.NaN(), "New CLOCK_REALTIME frequency (PPB)")
}

var freqCmd = &cobra.Command{
	Use:   "freq",
	Short: "Print or set CLOCK_REALTIME frequency adjustment",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := freqRun(unix.CLOCK_REALTIME, freqSetFlag); err != nil {
			log.Fatal(err)
		}
	},
}

func freqRun(clockID int32, freq float64) error {
	curFreq, state, err := clock.FrequencyPPB(clockID)
	if err != nil {
		return fmt.Errorf("reading frequency: %w", err)
	}
	maxFreq, _, err := clock.MaxFreqPPB(clockID)
	if err != nil {
		return fmt.Errorf("reading max frequency: %w", err)
	}
	fmt.Printf("Current frequency: %f\n", curFreq)
	fmt.Printf("Frequency range: [%.2f, %.2f]\n", -maxFreq, maxFreq)
	fmt.Printf("Clock state: %d\n", state)
	if math.IsNaN(freq) {
		return nil
	}
	if freq < -maxFreq || freq > maxFreq {
		return fmt.Errorf("frequency %f is out of supported range", freq)
	}
	fmt.Printf("Setting new frequency value %f\n", freq)
	if _, err := clock.AdjFreqPPB(clockID, freq); err != nil {
		return fmt.Errorf("setting frequency: %w", err)
	}
	return nil
}
