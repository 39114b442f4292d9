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
Package clock contains wrappers around Linux POSIX clock syscalls.

It provides:
  - MonotonicRaw, a 32-bit free-running microsecond counter read from
    CLOCK_MONOTONIC_RAW, which is the tick source for uptime tracking.
  - Realtime, CLOCK_REALTIME exposed as a hardware clock which can be read,
    written and stepped.
  - CLOCK_ADJTIME helpers to read and adjust clock frequency and to step the clock.
*/
package clock
