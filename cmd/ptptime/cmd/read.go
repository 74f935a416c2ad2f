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
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebookincubator/ptptime/clock"
	"github.com/facebookincubator/ptptime/phc"
)

// flags
var readDeviceFlag string

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read PTP hardware clock time and compare it to the system clocks",
	Run:   runReadCmd,
}

func init() {
	RootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVarP(&readDeviceFlag, "device", "d", phc.DefaultDevice, "PTP device to read time from")
}

// printTimeBlock renders a timestamp as raw seconds+nanoseconds followed by a local calendar line
func printTimeBlock(w io.Writer, label string, t time.Time) {
	fmt.Fprintf(w, "%s: %ds %dns\n", label, t.Unix(), t.Nanosecond())
	fmt.Fprintln(w, t.Local().Format("2006-01-02 15:04:05"))
}

func runReadCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()

	exitCode := 0
	ptpClock := phc.New(readDeviceFlag)
	phcTime, err := ptpClock.Time()
	if err != nil {
		log.Errorf("failed to read PHC time: %v", err)
		exitCode = 1
	} else {
		printTimeBlock(os.Stdout, "ptp time", phcTime)
	}

	// system clock reads don't depend on the PHC path and proceed either way
	realTime, err := clock.Realtime()
	if err != nil {
		log.Errorf("failed to read CLOCK_REALTIME: %v", err)
	} else {
		printTimeBlock(os.Stdout, "real time", realTime)
	}

	printTimeBlock(os.Stdout, "system clock time", time.Now())

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
