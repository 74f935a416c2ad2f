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
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebookincubator/ptptime/phc"
)

var mapCmd = &cobra.Command{
	Use:   "map [iface or /dev/ptpN]",
	Short: "Map network interface to PTP device and back",
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if err := runMapCmd(args); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(mapCmd)
}

func ptpDeviceNum(ptpPath string) (int, error) {
	basePath := filepath.Base(ptpPath)
	ptpPath = filepath.Join("/dev", basePath)
	realPath, err := filepath.EvalSymlinks(ptpPath)
	if err != nil {
		return 0, err
	}
	realBasePath := filepath.Base(realPath)
	if realBasePath != basePath {
		log.Infof("%s is %s", ptpPath, realPath)
	}
	return strconv.Atoi(strings.TrimLeftFunc(realBasePath, func(r rune) bool {
		return !unicode.IsNumber(r)
	}))
}

func getDevice(iface string) error {
	device, err := phc.IfaceToPHCDevice(iface)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", iface, device)
	return nil
}

func getIface(ptpDevice int) error {
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}
	n := 0
	for _, iface := range ifaces {
		tsinfo, err := phc.IfaceInfo(iface.Name)
		if err != nil {
			continue
		}
		if tsinfo.PHCIndex < 0 {
			continue
		}
		if int(tsinfo.PHCIndex) == ptpDevice || ptpDevice < 0 {
			fmt.Printf("/dev/ptp%d -> %s\n", tsinfo.PHCIndex, iface.Name)
			n++
		}
	}
	if n == 0 {
		if ptpDevice < 0 {
			return fmt.Errorf("no nics with PHC support found")
		}
		return fmt.Errorf("no nic found for /dev/ptp%d", ptpDevice)
	}
	return nil
}

func runMapCmd(args []string) error {
	if len(args) == 0 {
		// all PTP devices and their interfaces
		return getIface(-1)
	}
	arg := args[0]
	if strings.HasPrefix(filepath.Base(arg), "ptp") {
		num, err := ptpDeviceNum(arg)
		if err != nil {
			return err
		}
		return getIface(num)
	}
	return getDevice(arg)
}
