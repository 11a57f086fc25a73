package logger

import (
	"fmt"
	"sort"
	"strings"
	"testing"
)

// testLogger routes log output through t.Logf so it shows up interleaved
// with test output and only on failure. Accumulated fields are rendered as
// sorted key=value pairs after the message.
type testLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

// NewTestLogger returns a Logger backed by the test's own log output. A nil
// t discards everything.
func NewTestLogger(t *testing.T) Logger {
	return &testLogger{t: t}
}

func (l *testLogger) log(level, msg string) {
	if l.t == nil {
		return
	}
	if len(l.fields) == 0 {
		l.t.Logf("%s %s", level, msg)
		return
	}
	keys := make([]string, 0, len(l.fields))
	for key := range l.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, l.fields[key]))
	}
	l.t.Logf("%s %s %s", level, msg, strings.Join(pairs, " "))
}

func (l *testLogger) Debug(msg string) { l.log("DBG", msg) }
func (l *testLogger) Info(msg string)  { l.log("INF", msg) }
func (l *testLogger) Warn(msg string)  { l.log("WRN", msg) }
func (l *testLogger) Error(msg string) { l.log("ERR", msg) }
func (l *testLogger) Fatal(msg string) { l.log("FTL", msg) }

func (l *testLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *testLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &testLogger{t: l.t, fields: merged}
}
