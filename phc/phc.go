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

package phc

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultDevice is the path of the first PTP hardware clock on a typical system
const DefaultDevice = "/dev/ptp0"

// ClockInvalid is a clockid no clock_gettime will accept, same value linuxptp uses
const ClockInvalid int32 = -1

// Errors a Clock can return. Both wrap the underlying OS error text.
var (
	// ErrDeviceUnavailable means the PTP device could not be opened
	ErrDeviceUnavailable = errors.New("PHC device unavailable")
	// ErrReadFailed means the kernel rejected the clockid on a time read
	ErrReadFailed = errors.New("PHC clock read failed")
)

// FDToClockID derives a dynamic POSIX clockid from an open file descriptor,
// same as FD_TO_CLOCKID in Linux kernel's posix-timers.h: the fd is inverted,
// shifted left by 3 and tagged with CLOCKFD (0x3) in the low bits so the
// kernel can tell it apart from the static clockids. Defined at int32 width
// to match clockid_t regardless of the platform's int size.
func FDToClockID(fd uintptr) int32 {
	return int32((int(^fd) << 3) | 3)
}

// ClockIDToFD maps a handle-derived clockid back to the file descriptor
// it was derived from. Inverse of FDToClockID.
func ClockIDToFD(clockid int32) uintptr {
	return uintptr(^(int(clockid) >> 3))
}

// Clock reads time from a PTP hardware clock exposed as a dynamic POSIX clock.
// The device is opened lazily on the first read and the derived clockid is
// cached for the rest of the process. The kernel resolves such a clockid back
// to the file descriptor on every clock_gettime, so the descriptor is owned
// for the remainder of the process lifetime and deliberately never closed:
// closing it would invalidate the clockid and break all subsequent reads.
// For the same reason Clock has no Close method, and it keeps the *os.File
// referenced so the runtime finalizer cannot close the fd behind our back.
//
// A Clock is safe for concurrent use: initialization is guarded by a mutex,
// and the clockid is immutable once set.
type Clock struct {
	device string
	open   func(path string) (*os.File, error)

	mu      sync.Mutex
	dev     *os.File // held open until process exit, see type comment
	clockid int32
	cached  bool
}

// New returns a Clock reading from the given PTP device path, e.g. /dev/ptp0.
func New(device string) *Clock {
	return &Clock{
		device: device,
		open: func(path string) (*os.File, error) {
			return os.OpenFile(path, os.O_RDWR, 0)
		},
	}
}

// Device returns the device path this clock reads from
func (c *Clock) Device() string {
	return c.device
}

// ClockID returns the clockid for the device, opening the device on first
// call. Once derived the clockid is cached and returned without any I/O.
// A failed open caches nothing, so a later call retries the open.
func (c *Clock) ClockID() (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached {
		return c.clockid, nil
	}
	f, err := c.open(c.device)
	if err != nil {
		return ClockInvalid, fmt.Errorf("opening %q: %w: %v", c.device, ErrDeviceUnavailable, err)
	}
	c.dev = f
	c.clockid = FDToClockID(f.Fd())
	c.cached = true
	return c.clockid, nil
}

// Time reads the current time from the PTP hardware clock
func (c *Clock) Time() (time.Time, error) {
	clockid, err := c.ClockID()
	if err != nil {
		return time.Time{}, err
	}
	// zeroed before the call so a partial failure can't leak stale data
	var ts unix.Timespec
	if err := unix.ClockGettime(clockid, &ts); err != nil {
		return time.Time{}, fmt.Errorf("clock_gettime on %q: %w: %v", c.device, ErrReadFailed, err)
	}
	return time.Unix(ts.Unix()), nil
}
