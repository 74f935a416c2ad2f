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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFDToClockID(t *testing.T) {
	// known vector from the FD_TO_CLOCKID kernel macro
	require.Equal(t, int32(-29), FDToClockID(3))
	require.Equal(t, int32(-5), FDToClockID(0))
	require.Equal(t, int32(-85), FDToClockID(10))
}

func TestClockIDToFDRoundtrip(t *testing.T) {
	for fd := uintptr(0); fd < 1024; fd++ {
		require.Equal(t, fd, ClockIDToFD(FDToClockID(fd)))
	}
}

func TestClockIDCachedAfterFirstOpen(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "fakeptp")
	require.NoError(t, err)
	defer f.Close()

	opens := 0
	c := &Clock{
		device: "/dev/ptp23",
		open: func(_ string) (*os.File, error) {
			opens++
			return f, nil
		},
	}

	clockid, err := c.ClockID()
	require.NoError(t, err)
	require.Equal(t, FDToClockID(f.Fd()), clockid)

	again, err := c.ClockID()
	require.NoError(t, err)
	require.Equal(t, clockid, again)
	require.Equal(t, 1, opens, "second acquisition must not open the device again")
}

func TestClockIDOpenFailureRetries(t *testing.T) {
	opens := 0
	fail := true
	var f *os.File
	c := &Clock{
		device: "/dev/ptp23",
		open: func(_ string) (*os.File, error) {
			opens++
			if fail {
				return nil, fmt.Errorf("no such device")
			}
			var err error
			f, err = os.CreateTemp(t.TempDir(), "fakeptp")
			return f, err
		},
	}

	clockid, err := c.ClockID()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDeviceUnavailable))
	require.Equal(t, ClockInvalid, clockid)

	// nothing cached, next call tries the open again
	_, err = c.ClockID()
	require.Error(t, err)
	require.Equal(t, 2, opens)

	// once the open succeeds, the clockid is cached for good
	fail = false
	clockid, err = c.ClockID()
	require.NoError(t, err)
	require.Equal(t, FDToClockID(f.Fd()), clockid)
	_, err = c.ClockID()
	require.NoError(t, err)
	require.Equal(t, 3, opens)
	defer f.Close()
}

func TestTimeDeviceUnavailable(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := c.Time()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDeviceUnavailable))
}

func TestTimeReadFailed(t *testing.T) {
	// a clockid derived from a regular file fd is rejected by the kernel
	f, err := os.CreateTemp(t.TempDir(), "fakeptp")
	require.NoError(t, err)
	defer f.Close()

	c := &Clock{
		device: f.Name(),
		open:   func(_ string) (*os.File, error) { return f, nil },
	}
	_, err = c.Time()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrReadFailed))
}
