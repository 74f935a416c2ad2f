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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebookincubator/ptptime/phc"
)

// flags
var capsDeviceFlag string

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "Print PTP clock capabilities",
	Run:   runCapsCmd,
}

func init() {
	RootCmd.AddCommand(capsCmd)
	capsCmd.Flags().StringVarP(&capsDeviceFlag, "device", "d", phc.DefaultDevice, "PTP device to query")
}

func runCapsCmd(_ *cobra.Command, _ []string) {
	ConfigureVerbosity()

	caps, err := phc.ReadCaps(capsDeviceFlag)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s:\n", capsDeviceFlag)
	fmt.Printf("  max frequency adjustment: %d ppb\n", caps.MaxAdj)
	fmt.Printf("  programmable alarms: %d\n", caps.NAlarm)
	fmt.Printf("  external timestamp channels: %d\n", caps.NExtTs)
	fmt.Printf("  programmable periodic signals: %d\n", caps.NPerOut)
	fmt.Printf("  input/output pins: %d\n", caps.NPins)
	fmt.Printf("  pps callback: %t\n", caps.PPS != 0)
	fmt.Printf("  cross timestamping: %t\n", caps.CrossTimestamping != 0)
	fmt.Printf("  adjust phase: %t\n", caps.AdjustPhase != 0)
}
