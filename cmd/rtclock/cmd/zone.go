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
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/rtclock/calendar"
	"github.com/facebook/rtclock/daemon"
	"github.com/facebook/rtclock/tzif"
)

var (
	zoneFromFlag int
	zoneToFlag   int
	zoneLeapFlag bool
)

func init() {
	RootCmd.AddCommand(zoneCmd)
	zoneCmd.Flags().IntVarP(&zoneFromFlag, "from", "f", time.Now().Year(), "first year to print transitions for")
	zoneCmd.Flags().IntVarP(&zoneToFlag, "to", "t", time.Now().Year(), "last year to print transitions for")
	zoneCmd.Flags().BoolVarP(&zoneLeapFlag, "leap", "l", false, "print leap seconds")
}

var zoneCmd = &cobra.Command{
	Use:   "zone [name or path]",
	Short: "Print time zone transitions. Uses --zone when no argument is given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		name := rootZoneFlag
		if len(args) > 0 {
			name = args[0]
		}
		if err := zoneRun(name); err != nil {
			log.Fatal(err)
		}
	},
}

func formatOffset(offset int32) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%c%02d:%02d", sign, offset/3600, offset%3600/60)
}

// transitionRows returns table rows for transitions within [from, to] years
func transitionRows(z *tzif.Zone, from, to int) [][]string {
	start := calendar.Date(from, 1, 1, 0, 0, 0)
	end := calendar.Date(to+1, 1, 1, 0, 0, 0)
	rows := [][]string{}
	for _, tr := range z.Transitions {
		if tr.When < start || tr.When >= end || int(tr.Type) >= len(z.Types) {
			continue
		}
		lt := z.Types[tr.Type]
		dst := "no"
		if lt.IsDST {
			dst = color.YellowString("yes")
		}
		rows = append(rows, []string{
			time.Unix(tr.When, 0).UTC().Format(time.RFC3339),
			time.Unix(tr.When+int64(lt.Offset), 0).UTC().Format(time.DateTime),
			formatOffset(lt.Offset),
			lt.Name,
			dst,
		})
	}
	return rows
}

func zoneRun(name string) error {
	if name == "" {
		return fmt.Errorf("zone name or path is required")
	}
	z, err := daemon.LoadTZif(name)
	if err != nil {
		return err
	}
	fmt.Printf("Zone %s, TZif version %q\n", z.Name, versionString(z.Version))
	if z.Footer != "" {
		fmt.Printf("Rule after last transition: %s\n", z.Footer)
	}
	if r, ok := z.ActiveRule(time.Now().Unix()); ok {
		fmt.Printf("Active now: %s\n", r)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"utc", "local", "offset", "abbrev", "dst"})
	for _, row := range transitionRows(z, zoneFromFlag, zoneToFlag) {
		table.Append(row)
	}
	table.Render()

	if !zoneLeapFlag {
		return nil
	}
	leaps := z.LeapSeconds()
	if len(leaps) == 0 {
		fmt.Println("No leap seconds in zone file")
		return nil
	}
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"utc", "tai-utc"})
	for _, l := range leaps {
		table.Append([]string{l.Time().Format(time.RFC3339), fmt.Sprint(l.Nleap)})
	}
	table.Render()
	return nil
}

func versionString(v byte) string {
	if v == 0 {
		return "1"
	}
	return string(v)
}
