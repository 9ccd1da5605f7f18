// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// recordingTimer is a Timer that never waits but records each requested
// duration.  This allows retries to continue immediately.
type recordingTimer struct {
	lock      sync.Mutex
	durations []time.Duration
}

func (rt *recordingTimer) Timer(d time.Duration) <-chan time.Time {
	rt.lock.Lock()
	rt.durations = append(rt.durations, d)
	rt.lock.Unlock()

	tc := make(chan time.Time)
	close(tc)
	return tc
}

func (rt *recordingTimer) Durations() []time.Duration {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return append([]time.Duration(nil), rt.durations...)
}

// logCapture is a zerolog logger writing JSON records to a buffer
type logCapture struct {
	buffer bytes.Buffer
	logger zerolog.Logger
}

func newLogCapture() *logCapture {
	lc := new(logCapture)
	lc.logger = zerolog.New(&lc.buffer).Level(zerolog.DebugLevel)
	return lc
}

// Records parses each JSON line that was logged
func (lc *logCapture) Records() (records []map[string]interface{}) {
	scanner := bufio.NewScanner(bytes.NewReader(lc.buffer.Bytes()))
	for scanner.Scan() {
		record := make(map[string]interface{})
		if err := json.Unmarshal(scanner.Bytes(), &record); err == nil {
			records = append(records, record)
		}
	}

	return
}

// Warnings returns only the warn level records
func (lc *logCapture) Warnings() (warnings []map[string]interface{}) {
	for _, r := range lc.Records() {
		if r[zerolog.LevelFieldName] == zerolog.LevelWarnValue {
			warnings = append(warnings, r)
		}
	}

	return
}
