// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats captures a snapshot of memory allocation and elapsed time, used
// to log enumeration wall-clock/GC pressure at Debug level without forcing
// every caller to thread a stopwatch through the analysis run.
type PerfStats struct {
	startTime time.Time
	startMem  uint64
	startGc   uint32
}

// NewPerfStats snapshots the current runtime memory stats.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Log reports, at Debug level, the delta between now and when p was created.
func (p *PerfStats) Log(prefix string) {
	log.Debugf("%s took %s", prefix, p.String())
}

// String renders the usage delta since p was created.
func (p *PerfStats) String() string {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)
	alloc := (m.TotalAlloc - p.startMem) / 1024 / 1024
	gcs := m.NumGC - p.startGc
	exectime := time.Since(p.startTime).Seconds()

	return fmt.Sprintf("%0.2fs using %v Mb (%v GC events) [%v Mb]", exectime, alloc, gcs, m.Alloc/1024/1024)
}
