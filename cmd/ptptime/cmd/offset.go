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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebookincubator/ptptime/phc"
)

// flags
var (
	offsetDeviceFlag string
	offsetMethodFlag string
	offsetWarnFlag   time.Duration
	offsetFailFlag   time.Duration
)

var offsetCmd = &cobra.Command{
	Use:   "offset",
	Short: "Estimate offset and delay between PHC and system clock",
	Run:   runOffsetCmd,
}

func init() {
	RootCmd.AddCommand(offsetCmd)
	flags := offsetCmd.Flags()
	flags.StringVarP(&offsetDeviceFlag, "device", "d", phc.DefaultDevice, "PTP device to read time from")
	flags.StringVarP(&offsetMethodFlag, "method", "m", string(phc.MethodIoctlSysOffsetExtended),
		fmt.Sprintf("Method to get PHC time: %v", phc.SupportedMethods),
	)
	flags.DurationVarP(&offsetWarnFlag, "warn", "w", 250*time.Microsecond, "warn threshold for abs offset")
	flags.DurationVarP(&offsetFailFlag, "fail", "f", 1*time.Millisecond, "fail threshold for abs offset")
}

// fmtOffset colors the offset value against warn/fail thresholds
func fmtOffset(offset, warn, fail time.Duration) string {
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= fail:
		return color.RedString("%v", offset)
	case abs >= warn:
		return color.YellowString("%v", offset)
	}
	return color.GreenString("%v", offset)
}

func runOffsetCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()

	ptpClock := phc.New(offsetDeviceFlag)
	res, err := phc.TimeAndOffset(ptpClock, phc.TimeMethod(offsetMethodFlag))
	if err != nil {
		if phc.TimeMethod(offsetMethodFlag) == phc.MethodSyscallClockGettime {
			log.Fatal(err)
		}
		log.Warningf("Falling back to clock_gettime method: %v", err)
		res, err = phc.TimeAndOffset(ptpClock, phc.MethodSyscallClockGettime)
		if err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf("PHC clock: %s\n", res.PHCTime)
	fmt.Printf("SYS clock: %s\n", res.SysTime)
	fmt.Printf("Offset: %s\n", fmtOffset(res.Offset, offsetWarnFlag, offsetFailFlag))
	fmt.Printf("Delay: %s\n", res.Delay)
}
