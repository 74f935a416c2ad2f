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

/*
Package clock reads the static POSIX clocks through the CLOCK_GETTIME syscall.

It is a thin companion to the phc package: phc reads dynamic clockids derived
from an open device, while this package reads the well-known constant clockids
such as CLOCK_REALTIME and CLOCK_MONOTONIC. Reading CLOCK_REALTIME through the
syscall rather than time.Now gives a baseline taken through the same kernel
facility the PHC read uses, which makes the two timestamps comparable.
*/
package clock
