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

package clock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// gettime reads the given static POSIX clock via clock_gettime
func gettime(clockid int32) (time.Time, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(clockid, &ts); err != nil {
		return time.Time{}, fmt.Errorf("failed clock_gettime: %w", err)
	}
	return time.Unix(ts.Unix()), nil
}

// Realtime returns the OS wall clock time read directly via
// clock_gettime(CLOCK_REALTIME), bypassing the Go runtime's clock.
func Realtime() (time.Time, error) {
	return gettime(unix.CLOCK_REALTIME)
}

// Monotonic returns CLOCK_MONOTONIC, useful for interval measurements
func Monotonic() (time.Time, error) {
	return gettime(unix.CLOCK_MONOTONIC)
}
