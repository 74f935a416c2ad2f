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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealtime(t *testing.T) {
	got, err := Realtime()
	require.NoError(t, err)
	// syscall read and runtime clock should agree within seconds
	require.InDelta(t, time.Now().Unix(), got.Unix(), 2)
	require.GreaterOrEqual(t, got.Nanosecond(), 0)
	require.LessOrEqual(t, got.Nanosecond(), 999999999)
}

func TestMonotonic(t *testing.T) {
	first, err := Monotonic()
	require.NoError(t, err)
	second, err := Monotonic()
	require.NoError(t, err)
	require.False(t, second.Before(first))
}
